package scoring

import (
	"errors"
	"fmt"
	"math"

	"interviewprep/internal/config"
	"interviewprep/internal/models"
)

// ErrMissingScore is returned when a complete answer carries no overall score.
var ErrMissingScore = errors.New("completed answer has no score")

// Aggregator turns per-answer score cards into a session score card.
// It is pure: the same answers always produce the same result.
type Aggregator struct {
	baseline          float64
	simulationPenalty float64
}

func NewAggregator(cfg config.ScoringConfig) *Aggregator {
	return &Aggregator{baseline: cfg.Baseline, simulationPenalty: cfg.SimulationPenalty}
}

// Baseline is the score card used when there is nothing to aggregate.
func (a *Aggregator) Baseline() models.ScoreCard {
	var card models.ScoreCard
	for _, d := range allDimensions() {
		v := round1(a.baseline)
		card.Set(d, &v)
	}
	return card
}

// Aggregate scores a session from its answers. Only complete answers count.
func (a *Aggregator) Aggregate(mode models.Mode, answers []models.Answer) (models.ScoreCard, error) {
	complete := make([]models.Answer, 0, len(answers))
	for _, ans := range answers {
		if !ans.IsComplete {
			continue
		}
		if ans.Scores.Overall == nil {
			return models.ScoreCard{}, fmt.Errorf("%w: answer %d", ErrMissingScore, ans.ID)
		}
		complete = append(complete, ans)
	}
	if len(complete) == 0 {
		return a.Baseline(), nil
	}

	var sum float64
	for _, ans := range complete {
		sum += *ans.Scores.Overall
	}
	overall := sum / float64(len(complete))

	penalty := 0.0
	if mode == models.ModeSimulation {
		penalty = a.simulationPenalty
	}

	var card models.ScoreCard
	o := clamp(overall - penalty)
	card.Overall = &o
	for _, d := range models.Dimensions {
		var dimSum float64
		n := 0
		for _, ans := range complete {
			if v := ans.Scores.Get(d); v != nil {
				dimSum += *v
				n++
			}
		}
		mean := overall
		if n > 0 {
			mean = dimSum / float64(n)
		}
		v := clamp(mean - penalty)
		card.Set(d, &v)
	}
	return card, nil
}

func allDimensions() []models.Dimension {
	return append([]models.Dimension{models.DimensionOverall}, models.Dimensions...)
}

func clamp(v float64) float64 {
	return round1(math.Max(0, math.Min(100, v)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
