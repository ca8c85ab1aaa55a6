package lifecycle

import (
	"strings"
	"testing"

	"interviewprep/internal/catalog"
	"interviewprep/internal/models"
)

func newPlanner(t *testing.T) (*QuestionPlanner, *catalog.Catalog) {
	t.Helper()
	c, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New returned error: %v", err)
	}
	return NewQuestionPlanner(c), c
}

func questionText(t *testing.T, c *catalog.Catalog, id int) string {
	t.Helper()
	q, ok := c.Question(id)
	if !ok {
		t.Fatalf("question %d missing from catalogue", id)
	}
	return q.Text
}

func TestPlan_PracticeCount(t *testing.T) {
	p, _ := newPlanner(t)
	tests := []struct {
		duration int
		want     int
	}{
		{5, 3},
		{15, 3},
		{20, 4},
		{30, 6},
		{120, 6},
	}
	for _, tt := range tests {
		slots := p.Plan(models.StartInterviewRequest{Mode: models.ModePractice, Position: "it", Duration: tt.duration})
		if len(slots) != tt.want {
			t.Fatalf("duration %d: expected %d questions, got %d", tt.duration, tt.want, len(slots))
		}
		for i, s := range slots {
			if s.Sequence != i+1 || s.Status != models.SlotPending {
				t.Fatalf("duration %d: unexpected slot %d: %+v", tt.duration, i, s)
			}
		}
	}
}

func TestPlan_PracticePrefersRequestedTypes(t *testing.T) {
	p, c := newPlanner(t)
	slots := p.Plan(models.StartInterviewRequest{
		Mode:          models.ModePractice,
		Position:      "it",
		Duration:      30,
		QuestionTypes: []string{"technical", "stress"},
	})

	want := []int{104, 106, 110, 101, 102, 103}
	if len(slots) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(slots))
	}
	for i, id := range want {
		if slots[i].Text != questionText(t, c, id) {
			t.Fatalf("slot %d: expected question %d, got %q", i+1, id, slots[i].Text)
		}
	}
}

func TestPlan_PracticeHints(t *testing.T) {
	p, _ := newPlanner(t)
	off := p.Plan(models.StartInterviewRequest{Mode: models.ModePractice, Position: "it", Duration: 15})
	on := p.Plan(models.StartInterviewRequest{Mode: models.ModePractice, Position: "it", Duration: 15, SpecialSettings: []string{"realtime_hints"}})

	if off[0].AllowHints {
		t.Fatal("hints must be off unless realtime_hints is requested")
	}
	if !on[0].AllowHints || on[0].HintText == "" {
		t.Fatalf("expected hints on, got %+v", on[0])
	}
}

func TestPlan_SimulationCount(t *testing.T) {
	p, _ := newPlanner(t)
	for duration, want := range map[int]int{30: 5, 45: 6, 60: 7, 90: 8} {
		slots := p.Plan(models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: duration})
		if len(slots) != want {
			t.Fatalf("duration %d: expected %d questions, got %d", duration, want, len(slots))
		}
	}
}

func TestPlan_SimulationFillsPlaceholders(t *testing.T) {
	p, _ := newPlanner(t)
	slots := p.Plan(models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: 45, RoundType: "final"})

	if !strings.Contains(slots[0].Text, "final interview") || !strings.Contains(slots[0].Text, "the company") {
		t.Fatalf("unexpected opening question: %q", slots[0].Text)
	}
	if !strings.Contains(slots[1].Text, "Internet and IT roles") {
		t.Fatalf("expected position title in %q", slots[1].Text)
	}
	for _, s := range slots {
		if strings.Contains(s.Text, "{") {
			t.Fatalf("unfilled placeholder in %q", s.Text)
		}
		if s.AllowHints {
			t.Fatal("simulation questions never allow hints")
		}
	}
	if slots[0].Phase != models.PhaseIntro || slots[2].Phase != models.PhaseTechnical {
		t.Fatalf("unexpected phases: %s, %s", slots[0].Phase, slots[2].Phase)
	}
}

func TestPlan_SimulationCompanyAdjustments(t *testing.T) {
	p, c := newPlanner(t)
	base := p.Plan(models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: 45})
	tech := p.Plan(models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: 45, Company: "tech"})
	foreign := p.Plan(models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: 45, Company: "foreign"})

	for _, i := range []int{2, 3} {
		if tech[i].Difficulty != "hard" || tech[i].TimeLimit != base[i].TimeLimit+60 {
			t.Fatalf("tech slot %d: expected hard with +60s, got %+v", i+1, tech[i])
		}
	}
	if tech[0].TimeLimit != base[0].TimeLimit {
		t.Fatal("tech company must not change behavioral questions")
	}
	if !strings.Contains(tech[0].Text, "Internet Technology Co.") {
		t.Fatalf("expected company name in %q", tech[0].Text)
	}

	reminder := c.StructureReminder()
	for _, i := range []int{0, 1} {
		if foreign[i].TimeLimit != base[i].TimeLimit+30 || !strings.HasSuffix(foreign[i].Text, reminder) {
			t.Fatalf("foreign slot %d: expected +30s and reminder, got %+v", i+1, foreign[i])
		}
	}
	if foreign[2].TimeLimit != base[2].TimeLimit || strings.HasSuffix(foreign[2].Text, reminder) {
		t.Fatal("foreign company must not change technical questions")
	}
}
