package lifecycle

import (
	"context"
	"math"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
)

type Progress struct {
	Answered int     `json:"answered"`
	Skipped  int     `json:"skipped"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

// Snapshot is what every lifecycle action returns.
type Snapshot struct {
	Session         *models.Session      `json:"session"`
	CurrentSlot     *models.QuestionSlot `json:"currentSlot"`
	Progress        Progress             `json:"progress"`
	NoNextQuestion  bool                 `json:"noNextQuestion"`
	ReportAvailable bool                 `json:"reportAvailable"`
}

func buildSnapshot(ctx context.Context, repo *repositories.SessionRepository, s *models.Session) (*Snapshot, error) {
	current, err := repo.CurrentSlot(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	pending, err := repo.CountSlots(ctx, s.ID, models.SlotPending)
	if err != nil {
		return nil, err
	}
	skipped, err := repo.CountSlots(ctx, s.ID, models.SlotSkipped)
	if err != nil {
		return nil, err
	}

	progress := Progress{Answered: s.AnsweredQuestions, Skipped: skipped, Total: s.TotalQuestions}
	if s.TotalQuestions > 0 {
		done := float64(s.AnsweredQuestions+skipped) / float64(s.TotalQuestions) * 100
		progress.Percent = math.Round(done*10) / 10
	}
	return &Snapshot{
		Session:         s,
		CurrentSlot:     current,
		Progress:        progress,
		NoNextQuestion:  current == nil && pending == 0,
		ReportAvailable: s.ReportAvailable(),
	}, nil
}
