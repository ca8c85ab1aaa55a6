package scoring

import (
	"context"
	"errors"
	"sort"
	"time"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"

	"go.uber.org/zap"
)

// HistoryStore is the read and write surface the statistics service needs.
// repositories.StatisticsRepository satisfies it.
type HistoryStore interface {
	Get(ctx context.Context, userID uint) (*models.Statistics, error)
	Upsert(ctx context.Context, stats *models.Statistics) error
	FinishedSessions(ctx context.Context, userID uint) ([]models.Session, error)
	RecentCompleted(ctx context.Context, userID uint, limit int) ([]models.Session, error)
	SkippedSlots(ctx context.Context, userID uint) (int, error)
	UploadTotals(ctx context.Context, userID uint) (models.UploadTotals, error)
	AnalysisSummary(ctx context.Context, userID uint) (models.AnalysisSummary, error)
	OtherUsersBestScores(ctx context.Context, userID uint) ([]float64, error)
	TrendPoints(ctx context.Context, userID uint, since time.Time) ([]models.TrendPoint, error)
}

var _ HistoryStore = (*repositories.StatisticsRepository)(nil)

// History is everything a statistics recompute reads about one user.
type History struct {
	Finished   []models.Session
	Skipped    int
	Uploads    models.UploadTotals
	Analysis   models.AnalysisSummary
	OthersBest []float64
}

// StatisticsService keeps the per-user statistics cache in step with history.
type StatisticsService struct {
	store  HistoryStore
	logger *zap.Logger
	now    func() time.Time
}

func NewStatisticsService(store HistoryStore, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{store: store, logger: logger, now: time.Now}
}

// Get returns the cached statistics, or an empty record for a user with no history.
func (s *StatisticsService) Get(ctx context.Context, userID uint) (*models.Statistics, error) {
	stats, err := s.store.Get(ctx, userID)
	if errors.Is(err, repositories.ErrStatisticsNotFound) {
		return &models.Statistics{UserID: userID}, nil
	}
	return stats, err
}

// Recompute rebuilds the user's statistics from the full history and stores them.
func (s *StatisticsService) Recompute(ctx context.Context, userID uint) (*models.Statistics, error) {
	var (
		h   History
		err error
	)
	if h.Finished, err = s.store.FinishedSessions(ctx, userID); err != nil {
		return nil, err
	}
	if h.Skipped, err = s.store.SkippedSlots(ctx, userID); err != nil {
		return nil, err
	}
	if h.Uploads, err = s.store.UploadTotals(ctx, userID); err != nil {
		return nil, err
	}
	if h.Analysis, err = s.store.AnalysisSummary(ctx, userID); err != nil {
		return nil, err
	}
	if h.OthersBest, err = s.store.OtherUsersBestScores(ctx, userID); err != nil {
		return nil, err
	}

	stats := ComputeStatistics(userID, h, s.now())
	if err := s.store.Upsert(ctx, stats); err != nil {
		return nil, err
	}
	s.logger.Debug("statistics recomputed",
		zap.Uint("user_id", userID),
		zap.Int("sessions", stats.TotalInterviews),
		zap.Float64("avg_overall", stats.AvgOverall),
	)
	return stats, nil
}

// ComputeStatistics derives a statistics record from a user's history.
// Totals count every finished session; score averages use completed ones.
func ComputeStatistics(userID uint, h History, now time.Time) *models.Statistics {
	stats := &models.Statistics{
		UserID:          userID,
		TotalInterviews: len(h.Finished),
		TotalSkipped:    h.Skipped,
		AudioUploads:    h.Uploads.AudioUploads,
		VideoUploads:    h.Uploads.VideoUploads,
		UploadBytes:     h.Uploads.Bytes,
		AvgAudioLevel:   round1(h.Analysis.AvgAudioLevel),
		AvgSpeechSpeed:  round1(h.Analysis.AvgSpeechSpeed),
		DominantEmotion: h.Analysis.DominantEmotion,
	}

	var completed []models.Session
	for _, s := range h.Finished {
		switch s.Mode {
		case models.ModePractice:
			stats.PracticeInterviews++
		case models.ModeSimulation:
			stats.SimulationInterviews++
		}
		if s.IsEmergencyExit {
			stats.EmergencyExits++
		}
		stats.QuestionsPracticed += s.AnsweredQuestions
		stats.TotalPauses += s.PauseCount
		stats.TotalHintsUsed += s.HintsUsed
		if s.CompletedAt != nil && (stats.LastInterviewAt == nil || s.CompletedAt.After(*stats.LastInterviewAt)) {
			at := *s.CompletedAt
			stats.LastInterviewAt = &at
		}
		if s.Status == models.StatusCompleted {
			completed = append(completed, s)
		} else {
			stats.IncompleteInterviews++
		}
	}
	stats.CompletedInterviews = len(completed)

	for _, s := range completed {
		if s.ActualDurationSec != nil {
			stats.TotalDurationSec += *s.ActualDurationSec
		}
	}
	if len(completed) > 0 {
		stats.AvgDurationSec = round1(float64(stats.TotalDurationSec) / float64(len(completed)))
	}

	scored := scoredByCompletion(completed)
	if len(scored) > 0 {
		stats.AvgOverall = meanOf(scored, models.DimensionOverall)
		stats.AvgProfessional = meanOf(scored, models.DimensionProfessional)
		stats.AvgSkillMatch = meanOf(scored, models.DimensionSkillMatch)
		stats.AvgLanguageExpression = meanOf(scored, models.DimensionLanguageExpression)
		stats.AvgLogicalThinking = meanOf(scored, models.DimensionLogicalThinking)
		stats.AvgComprehensiveQuality = meanOf(scored, models.DimensionComprehensiveQuality)
		for _, s := range scored {
			if *s.Scores.Overall > stats.BestOverall {
				stats.BestOverall = *s.Scores.Overall
			}
		}
		latest := *scored[len(scored)-1].Scores.Overall
		p := Percentile(latest, h.OthersBest)
		stats.RankPercentile = &p
	}

	stats.CurrentMonthAvg, stats.LastMonthAvg, stats.ImprovementRate = Improvement(scored, now)
	stats.DailyStreak = DailyStreak(completed, now)
	return stats
}

// Percentile ranks score against other users' best scores. It is 50 when
// there is no one to compare against and is otherwise kept within [1,99].
func Percentile(score float64, others []float64) float64 {
	if len(others) == 0 {
		return 50
	}
	lower := 0
	for _, o := range others {
		if o < score {
			lower++
		}
	}
	p := float64(lower) / float64(len(others)) * 100
	if p < 1 {
		p = 1
	}
	if p > 99 {
		p = 99
	}
	return round1(p)
}

// Improvement compares this calendar month with the previous one. When
// either month is empty it falls back to the last three sessions against
// the seven before them. scored must be ordered oldest first.
func Improvement(scored []models.Session, now time.Time) (current, last, rate float64) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	var cur, prev []models.Session
	for _, s := range scored {
		at := *s.CompletedAt
		switch {
		case !at.Before(monthStart):
			cur = append(cur, s)
		case !at.Before(prevStart):
			prev = append(prev, s)
		}
	}
	if len(cur) > 0 {
		current = meanOf(cur, models.DimensionOverall)
	}
	if len(prev) > 0 {
		last = meanOf(prev, models.DimensionOverall)
	}
	if len(cur) > 0 && len(prev) > 0 && last > 0 {
		return current, last, round1((current - last) / last * 100)
	}

	window := scored
	if len(window) > 10 {
		window = window[len(window)-10:]
	}
	if len(window) <= 3 {
		return current, last, 0
	}
	recent := meanOf(window[len(window)-3:], models.DimensionOverall)
	earlier := meanOf(window[:len(window)-3], models.DimensionOverall)
	if earlier == 0 {
		return current, last, 0
	}
	return current, last, round1((recent - earlier) / earlier * 100)
}

// DailyStreak counts consecutive days with a completed session, ending
// today or yesterday.
func DailyStreak(completed []models.Session, now time.Time) int {
	days := map[string]bool{}
	for _, s := range completed {
		if s.CompletedAt != nil {
			days[s.CompletedAt.In(now.Location()).Format(time.DateOnly)] = true
		}
	}
	day := now
	if !days[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(time.DateOnly)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func scoredByCompletion(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Scores.Overall != nil && s.CompletedAt != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(*out[j].CompletedAt) })
	return out
}

// meanOf averages dimension d over sessions, using overall where d is missing.
func meanOf(sessions []models.Session, d models.Dimension) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		v := s.Scores.Get(d)
		if v == nil {
			v = s.Scores.Overall
		}
		sum += value(v)
	}
	return round1(sum / float64(len(sessions)))
}
