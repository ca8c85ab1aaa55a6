package lifecycle

import (
	"context"
	"fmt"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
)

// HintResult is the hint shown for one question.
type HintResult struct {
	SlotID    uint   `json:"slotId"`
	Hint      string `json:"hint"`
	UsedCount int    `json:"usedCount"`
}

// NextQuestion returns the current question, promoting the next pending one
// when none is current. NoNextQuestion is set once every question is done.
func (c *Controller) NextQuestion(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	return c.act(ctx, "next_question", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		return c.advance(ctx, tx, s)
	})
}

// StartAnswer marks the question as being answered and starts recording.
func (c *Controller) StartAnswer(ctx context.Context, userID, sessionID uint, req models.SlotRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return c.act(ctx, "start_answer", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		slot, err := openSlot(ctx, tx, s, req.SlotID)
		if err != nil {
			return err
		}
		now := c.now()
		if slot.Status == models.SlotPending {
			current, err := tx.CurrentSlot(ctx, s.ID)
			if err != nil {
				return err
			}
			if current != nil {
				return invalid("question %d is still current", current.Sequence)
			}
			slot.Status = models.SlotCurrent
			slot.AskedAt = &now
			if err := tx.SaveSlot(ctx, slot); err != nil {
				return err
			}
		}

		ans, err := answerFor(ctx, tx, slot)
		if err != nil {
			return err
		}
		ans.StartedAt = &now
		if err := tx.SaveAnswer(ctx, ans); err != nil {
			return err
		}
		s.IsRecording = true
		return nil
	})
}

// Hint returns the hint of a question without recording that it was used.
func (c *Controller) Hint(ctx context.Context, userID, sessionID, slotID uint) (*HintResult, error) {
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	slot, err := c.sessions.GetSlot(ctx, sessionID, slotID)
	if err != nil {
		return nil, translate(err)
	}
	if err := hintsAllowed(s, slot); err != nil {
		return nil, err
	}
	return &HintResult{SlotID: slot.ID, Hint: c.hintText(slot), UsedCount: slot.HintUsedCount}, nil
}

// UseHint returns the hint and records its use on the question and the session.
func (c *Controller) UseHint(ctx context.Context, userID, sessionID, slotID uint) (*HintResult, error) {
	var result *HintResult
	_, err := c.act(ctx, "use_hint", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		slot, err := openSlot(ctx, tx, s, slotID)
		if err != nil {
			return err
		}
		if err := hintsAllowed(s, slot); err != nil {
			return err
		}

		now := c.now()
		slot.HintUsedCount++
		if err := tx.SaveSlot(ctx, slot); err != nil {
			return err
		}
		ans, err := answerFor(ctx, tx, slot)
		if err != nil {
			return err
		}
		ans.UsedHint = true
		ans.HintViewedAt = &now
		if err := tx.SaveAnswer(ctx, ans); err != nil {
			return err
		}
		s.HintsUsed++
		result = &HintResult{SlotID: slot.ID, Hint: c.hintText(slot), UsedCount: slot.HintUsedCount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func hintsAllowed(s *models.Session, slot *models.QuestionSlot) error {
	if err := requirePractice(s, "hints"); err != nil {
		return err
	}
	if !slot.AllowHints {
		return invalid("hints are disabled for question %d", slot.Sequence)
	}
	return nil
}

func (c *Controller) hintText(slot *models.QuestionSlot) string {
	if slot.HintText != "" {
		return slot.HintText
	}
	return c.catalog.Hint(slot.Type)
}
