package scoring

import (
	"errors"
	"testing"

	"interviewprep/internal/config"
	"interviewprep/internal/models"
)

func float(v float64) *float64 { return &v }

func newAggregator() *Aggregator {
	return NewAggregator(config.ScoringConfig{Baseline: 60, SimulationPenalty: 8})
}

func answer(overall float64, dims map[models.Dimension]float64) models.Answer {
	a := models.Answer{IsComplete: true}
	a.Scores.Overall = float(overall)
	for d, v := range dims {
		a.Scores.Set(d, float(v))
	}
	return a
}

func TestAggregate_PracticeMean(t *testing.T) {
	card, err := newAggregator().Aggregate(models.ModePractice, []models.Answer{
		answer(90, map[models.Dimension]float64{models.DimensionProfessional: 88}),
		answer(70, map[models.Dimension]float64{models.DimensionProfessional: 72}),
	})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if *card.Overall != 80 {
		t.Fatalf("expected overall 80, got %v", *card.Overall)
	}
	if *card.Professional != 80 {
		t.Fatalf("expected professional 80, got %v", *card.Professional)
	}
	// no answer scored skill_match, so it follows overall
	if *card.SkillMatch != 80 {
		t.Fatalf("expected skill_match to fall back to overall, got %v", *card.SkillMatch)
	}
}

func TestAggregate_SimulationPenalty(t *testing.T) {
	card, err := newAggregator().Aggregate(models.ModeSimulation, []models.Answer{answer(90, nil), answer(70, nil)})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if *card.Overall != 72 {
		t.Fatalf("expected penalised overall 72, got %v", *card.Overall)
	}
	for _, d := range models.Dimensions {
		if *card.Get(d) != 72 {
			t.Fatalf("expected %s to be 72, got %v", d, *card.Get(d))
		}
	}
}

func TestAggregate_PenaltyClampsAtZero(t *testing.T) {
	card, err := newAggregator().Aggregate(models.ModeSimulation, []models.Answer{answer(5, nil)})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if *card.Overall != 0 {
		t.Fatalf("expected clamp to 0, got %v", *card.Overall)
	}
}

func TestAggregate_BaselineWhenNothingCompleted(t *testing.T) {
	incomplete := answer(95, nil)
	incomplete.IsComplete = false

	for _, mode := range []models.Mode{models.ModePractice, models.ModeSimulation} {
		card, err := newAggregator().Aggregate(mode, []models.Answer{incomplete})
		if err != nil {
			t.Fatalf("Aggregate returned error: %v", err)
		}
		if *card.Overall != 60 || *card.LogicalThinking != 60 {
			t.Fatalf("%s: expected unpenalised baseline 60, got %+v", mode, card)
		}
	}
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	card, err := newAggregator().Aggregate(models.ModePractice, []models.Answer{answer(80, nil), answer(81, nil), answer(81, nil)})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if *card.Overall != 80.7 {
		t.Fatalf("expected 80.7, got %v", *card.Overall)
	}
}

func TestAggregate_MissingScore(t *testing.T) {
	broken := models.Answer{ID: 7, IsComplete: true}
	_, err := newAggregator().Aggregate(models.ModePractice, []models.Answer{answer(80, nil), broken})
	if !errors.Is(err, ErrMissingScore) {
		t.Fatalf("expected ErrMissingScore, got %v", err)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	answers := []models.Answer{
		answer(91.3, map[models.Dimension]float64{models.DimensionLogicalThinking: 64.2}),
		answer(67.9, map[models.Dimension]float64{models.DimensionLogicalThinking: 77.7}),
	}
	agg := newAggregator()
	first, _ := agg.Aggregate(models.ModePractice, answers)
	for i := 0; i < 5; i++ {
		again, _ := agg.Aggregate(models.ModePractice, answers)
		if *again.Overall != *first.Overall || *again.LogicalThinking != *first.LogicalThinking {
			t.Fatalf("aggregation changed between runs: %+v vs %+v", first, again)
		}
	}
}
