package scoring

import (
	"testing"
	"time"

	"interviewprep/internal/models"
)

func TestYearWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-01", "2024-01"}, // Monday
		{"2023-01-01", "2023-00"}, // Sunday before the first Monday
		{"2023-01-02", "2023-01"},
		{"2026-10-19", "2026-42"},
		{"2026-12-31", "2026-52"},
	}
	for _, tt := range tests {
		d, _ := time.Parse(time.DateOnly, tt.date)
		if got := YearWeek(d); got != tt.want {
			t.Fatalf("YearWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestBuildTrendPoint(t *testing.T) {
	done := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	duration := 900
	s := &models.Session{
		ID:                3,
		UserID:            9,
		Mode:              models.ModePractice,
		Position:          "it",
		TotalQuestions:    4,
		AnsweredQuestions: 3,
		HintsUsed:         1,
		PauseCount:        2,
		ActualDurationSec: &duration,
		CompletedAt:       &done,
		Scores:            card(80, 81, 82, 83, 84, 85),
	}

	p := BuildTrendPoint(s, 1)
	if p.UserID != 9 || p.SessionID != 3 || p.YearMonth != "2026-03" || p.YearWeek != "2026-09" {
		t.Fatalf("unexpected identity fields: %+v", p)
	}
	if p.CompletionRate != 75 || p.QuestionsSkipped != 1 || p.DurationSec != 900 || p.Pauses != 2 {
		t.Fatalf("unexpected counters: %+v", p)
	}
	if *p.Scores.ComprehensiveQuality != 85 {
		t.Fatalf("scores not copied: %+v", p.Scores)
	}
	*s.Scores.Overall = 1
	if *p.Scores.Overall != 80 {
		t.Fatal("trend point must not share score storage with the session")
	}
}
