package models

import "testing"

func TestPhaseNext(t *testing.T) {
	p := PhaseIntro
	var visited []Phase
	for {
		next, ok := p.Next()
		if !ok {
			break
		}
		visited = append(visited, next)
		p = next
	}
	if len(visited) != len(Phases)-1 || p != PhaseQuestions {
		t.Fatalf("unexpected walk %v ending at %s", visited, p)
	}
	if _, ok := Phase("lunch").Next(); ok {
		t.Fatal("unknown phase must not advance")
	}
}

func TestScoreCardGetSet(t *testing.T) {
	var card ScoreCard
	if !card.IsEmpty() {
		t.Fatal("zero card should be empty")
	}
	v := 71.5
	card.Set(DimensionLogicalThinking, &v)
	if got := card.Get(DimensionLogicalThinking); got == nil || *got != 71.5 {
		t.Fatalf("unexpected value %v", got)
	}
	if card.IsEmpty() {
		t.Fatal("card with a dimension should not be empty")
	}
	if card.Get("charisma") != nil {
		t.Fatal("unknown dimension should be nil")
	}
}

func TestReportAvailable(t *testing.T) {
	score := 60.0
	cases := []struct {
		name string
		s    Session
		want bool
	}{
		{"in progress", Session{Status: StatusInProgress, Scores: ScoreCard{Overall: &score}}, false},
		{"interrupted unscored", Session{Status: StatusInterrupted}, false},
		{"interrupted scored", Session{Status: StatusInterrupted, Scores: ScoreCard{Overall: &score}}, true},
		{"completed", Session{Status: StatusCompleted, Scores: ScoreCard{Overall: &score}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.ReportAvailable(); got != tc.want {
				t.Fatalf("ReportAvailable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCalculatePaginationMeta(t *testing.T) {
	meta := CalculatePaginationMeta(2, 10, 25)
	if meta.TotalPages != 3 || !meta.HasNext || !meta.HasPrev {
		t.Fatalf("unexpected meta %+v", meta)
	}
	meta = CalculatePaginationMeta(1, 0, 0)
	if meta.TotalPages != 0 || meta.HasNext || meta.HasPrev {
		t.Fatalf("unexpected meta for empty listing %+v", meta)
	}
}

func TestProfileIsComplete(t *testing.T) {
	age, year := 23, 2024
	p := &Profile{Age: &age, GraduationYear: &year, Education: "bachelor", School: "NUS", Major: "CS", MajorCategory: "engineering"}
	if p.IsComplete() {
		t.Fatal("profile without target positions is incomplete")
	}
	p.TargetPositions = []string{"backend"}
	if !p.IsComplete() {
		t.Fatal("expected complete profile")
	}
	var nilProfile *Profile
	if nilProfile.IsComplete() {
		t.Fatal("nil profile is incomplete")
	}
}
