package lifecycle

import (
	"interviewprep/internal/catalog"
	"interviewprep/internal/models"
)

const (
	maxPracticeQuestions = 6
	minPracticeQuestions = 3
	perTypeQuota         = 2
)

// QuestionPlanner picks the questions of a new session from the catalogue.
type QuestionPlanner struct {
	catalog *catalog.Catalog
}

func NewQuestionPlanner(c *catalog.Catalog) *QuestionPlanner {
	return &QuestionPlanner{catalog: c}
}

// Plan returns pending slots numbered from 1. req must be validated.
func (p *QuestionPlanner) Plan(req models.StartInterviewRequest) []models.QuestionSlot {
	if req.Mode == models.ModeSimulation {
		return p.simulation(req)
	}
	return p.practice(req)
}

func (p *QuestionPlanner) practice(req models.StartInterviewRequest) []models.QuestionSlot {
	bank := p.catalog.Bank(models.ModePractice)
	count := min(req.Duration/5, maxPracticeQuestions)
	count = max(count, minPracticeQuestions)
	count = min(count, len(bank))

	picked := make([]catalog.Question, 0, len(bank))
	used := make(map[int]bool, len(bank))
	for _, qt := range req.QuestionTypes {
		n := 0
		for _, q := range bank {
			if n == perTypeQuota {
				break
			}
			if q.Type == qt && !used[q.ID] {
				picked = append(picked, q)
				used[q.ID] = true
				n++
			}
		}
	}
	for _, q := range bank {
		if !used[q.ID] {
			picked = append(picked, q)
		}
	}
	picked = picked[:count]

	hints := req.HasSetting("realtime_hints")
	slots := make([]models.QuestionSlot, 0, count)
	for i, q := range picked {
		slots = append(slots, models.QuestionSlot{
			Sequence:   i + 1,
			Status:     models.SlotPending,
			Text:       q.Text,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Category:   q.Category,
			Phase:      q.Phase,
			TimeLimit:  q.TimeLimit,
			AllowHints: hints,
			HintText:   q.Hint,
		})
	}
	return slots
}

// simulationCount maps the scheduled duration in minutes to a question count.
func simulationCount(duration int) int {
	switch {
	case duration <= 30:
		return 5
	case duration <= 45:
		return 6
	case duration <= 60:
		return 7
	}
	return 8
}

func (p *QuestionPlanner) simulation(req models.StartInterviewRequest) []models.QuestionSlot {
	bank := p.catalog.Bank(models.ModeSimulation)
	count := min(simulationCount(req.Duration), len(bank))

	position := req.Position
	if pos, ok := p.catalog.Position(req.Position); ok {
		position = pos.Title
	}
	values := map[string]string{
		"company":  p.catalog.CompanyName(req.Company),
		"round":    p.catalog.RoundName(req.RoundType),
		"position": position,
	}

	slots := make([]models.QuestionSlot, 0, count)
	for i, q := range bank[:count] {
		slot := models.QuestionSlot{
			Sequence:   i + 1,
			Status:     models.SlotPending,
			Text:       catalog.Fill(q.Text, values),
			Type:       q.Type,
			Difficulty: q.Difficulty,
			Category:   q.Category,
			Phase:      q.Phase,
			TimeLimit:  q.TimeLimit,
			HintText:   q.Hint,
		}
		switch {
		case req.Company == "tech" && q.Type == "technical":
			slot.Difficulty = "hard"
			slot.TimeLimit += 60
		case req.Company == "foreign" && q.Type == "behavioral":
			slot.TimeLimit += 30
			slot.Text += p.catalog.StructureReminder()
		}
		slots = append(slots, slot)
	}
	return slots
}
