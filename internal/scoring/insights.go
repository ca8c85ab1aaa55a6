package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interviewprep/internal/catalog"
	"interviewprep/internal/models"

	"github.com/google/uuid"
)

var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrUnknownPeriod    = errors.New("unknown period")
)

// TrendPeriods maps a period name to how many days back it reaches.
var TrendPeriods = map[string]int{"week": 7, "month": 30, "quarter": 90}

type RecentRecord struct {
	SessionID   uint        `json:"sessionId"`
	Mode        models.Mode `json:"mode"`
	Position    string      `json:"position"`
	Score       float64     `json:"score"`
	CompletedAt time.Time   `json:"completedAt"`
}

type Performance struct {
	Scores        models.ScoreCard `json:"scores"`
	BetterThan    float64          `json:"betterThan"`
	Improvement   float64          `json:"improvement"`
	RecentRecords []RecentRecord   `json:"recentRecords"`
}

type TrendEntry struct {
	Date      string  `json:"date"`
	Score     float64 `json:"score"`
	SessionID uint    `json:"sessionId"`
	Position  string  `json:"position"`
}

type Trend struct {
	Dimension models.Dimension `json:"dimension"`
	Period    string           `json:"period"`
	Points    []TrendEntry     `json:"points"`
}

type PlanStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}

type PracticePlan struct {
	PlanID              string           `json:"planId"`
	TargetAbility       models.Dimension `json:"targetAbility"`
	DifficultyLevel     string           `json:"difficultyLevel"`
	Duration            int              `json:"duration"`
	QuestionCount       int              `json:"questionCount"`
	Steps               []PlanStep       `json:"steps"`
	ExpectedImprovement float64          `json:"expectedImprovement"`
}

// Insights answers the analytics questions a user asks about their history.
type Insights struct {
	store      HistoryStore
	catalog    *catalog.Catalog
	aggregator *Aggregator
	now        func() time.Time
}

func NewInsights(store HistoryStore, c *catalog.Catalog, a *Aggregator) *Insights {
	return &Insights{store: store, catalog: c, aggregator: a, now: time.Now}
}

func (in *Insights) Performance(ctx context.Context, userID uint) (*Performance, error) {
	recent, err := in.store.RecentCompleted(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	others, err := in.store.OtherUsersBestScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	finished, err := in.store.FinishedSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	perf := &Performance{Scores: in.aggregator.Baseline(), RecentRecords: []RecentRecord{}}
	for _, s := range recent {
		if s.Scores.Overall == nil || s.CompletedAt == nil {
			continue
		}
		if len(perf.RecentRecords) == 0 {
			perf.Scores = fillMissing(s.Scores)
		}
		perf.RecentRecords = append(perf.RecentRecords, RecentRecord{
			SessionID:   s.ID,
			Mode:        s.Mode,
			Position:    s.Position,
			Score:       *s.Scores.Overall,
			CompletedAt: *s.CompletedAt,
		})
	}
	perf.BetterThan = Percentile(value(perf.Scores.Overall), others)
	_, _, perf.Improvement = Improvement(scoredByCompletion(completedOnly(finished)), in.now())
	return perf, nil
}

func (in *Insights) Trend(ctx context.Context, userID uint, dimension models.Dimension, period string) (*Trend, error) {
	if dimension == "" {
		dimension = models.DimensionOverall
	}
	if period == "" {
		period = "month"
	}
	valid := dimension == models.DimensionOverall
	for _, d := range models.Dimensions {
		valid = valid || d == dimension
	}
	if !valid {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	days, ok := TrendPeriods[period]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
	}

	points, err := in.store.TrendPoints(ctx, userID, in.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	trend := &Trend{Dimension: dimension, Period: period, Points: []TrendEntry{}}
	for _, p := range points {
		v := p.Scores.Get(dimension)
		if v == nil {
			v = p.Scores.Overall
		}
		if v == nil {
			continue
		}
		trend.Points = append(trend.Points, TrendEntry{
			Date:      p.Date.Format(time.DateOnly),
			Score:     *v,
			SessionID: p.SessionID,
			Position:  p.Position,
		})
	}
	return trend, nil
}

// Advice picks a recommendation from the mean of the last five scores.
func (in *Insights) Advice(ctx context.Context, userID uint) ([]catalog.AdviceTemplate, error) {
	recent, err := in.store.RecentCompleted(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	var sum float64
	n := 0
	for _, s := range recent {
		if s.Scores.Overall != nil {
			sum += *s.Scores.Overall
			n++
		}
	}
	if n == 0 {
		return []catalog.AdviceTemplate{in.catalog.WelcomeAdvice()}, nil
	}
	avg := round1(sum / float64(n))
	for _, band := range in.catalog.AdviceBands() {
		if avg >= band.Min {
			band.Content = catalog.Fill(band.Content, map[string]string{"avg": fmt.Sprintf("%.1f", avg)})
			return []catalog.AdviceTemplate{band}, nil
		}
	}
	return []catalog.AdviceTemplate{}, nil
}

// Plan builds a practice plan; req must already be validated.
func (in *Insights) Plan(req models.PracticePlanRequest) *PracticePlan {
	tpl := in.catalog.Plan()
	ability := in.catalog.Feedback(models.ModePractice).DimensionNames[req.TargetAbility]

	perQuestion := tpl.MinutesPerQuestion
	if perQuestion <= 0 {
		perQuestion = 3
	}
	improvement, ok := tpl.ExpectedImprovement[req.DifficultyLevel]
	if !ok {
		improvement = tpl.DefaultImprovement
	}

	plan := &PracticePlan{
		PlanID:              uuid.NewString(),
		TargetAbility:       req.TargetAbility,
		DifficultyLevel:     req.DifficultyLevel,
		Duration:            req.Duration,
		QuestionCount:       max(1, req.Duration/perQuestion),
		ExpectedImprovement: improvement,
	}
	for i, step := range tpl.Steps {
		plan.Steps = append(plan.Steps, PlanStep{
			Step:        i + 1,
			Title:       step.Title,
			Description: catalog.Fill(step.Description, map[string]string{"ability": ability}),
			Minutes:     int(float64(req.Duration) * step.Share),
		})
	}
	return plan
}

func completedOnly(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == models.StatusCompleted {
			out = append(out, s)
		}
	}
	return out
}

// fillMissing copies c, using overall for any dimension that was not scored.
func fillMissing(c models.ScoreCard) models.ScoreCard {
	out := copyCard(c)
	for _, d := range models.Dimensions {
		if out.Get(d) == nil && c.Overall != nil {
			v := *c.Overall
			out.Set(d, &v)
		}
	}
	return out
}
