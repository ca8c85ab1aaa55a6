package lifecycle

import (
	"context"
	"errors"

	"interviewprep/internal/catalog"
	"interviewprep/internal/metrics"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/storage"

	"go.uber.org/zap"
)

// Status returns a snapshot without changing anything.
func (c *Controller) Status(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(ctx, c.sessions, s)
}

type PhaseView struct {
	Current models.Phase              `json:"current"`
	Index   int                       `json:"index"`
	Total   int                       `json:"total"`
	Phases  []catalog.PhaseDescriptor `json:"phases"`
}

func (c *Controller) Phases(ctx context.Context, userID, sessionID uint) (*PhaseView, error) {
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &PhaseView{
		Current: s.Phase,
		Index:   s.Phase.Index(),
		Total:   len(models.Phases),
		Phases:  c.catalog.Phases(),
	}, nil
}

// Detail returns the session with every question and answer.
func (c *Controller) Detail(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	s, err := c.sessions.GetDetail(ctx, sessionID)
	if err != nil {
		return nil, translate(err)
	}
	if s.UserID != userID {
		return nil, ErrForbidden
	}
	return s, nil
}

// History lists one page of the user's sessions.
func (c *Controller) History(ctx context.Context, userID uint, filter repositories.SessionFilter, page, limit int) ([]models.Session, models.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	sessions, total, err := c.sessions.ListByOwner(ctx, userID, filter, page, limit)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return sessions, models.CalculatePaginationMeta(page, limit, int(total)), nil
}

// CopySettings returns the start request that sets up a finished session again.
func (c *Controller) CopySettings(ctx context.Context, userID, sessionID uint) (*models.StartInterviewRequest, error) {
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.Status.Finished() {
		return nil, invalid("session is still %s", s.Status)
	}
	req := &models.StartInterviewRequest{
		Mode:            s.Mode,
		Position:        s.Position,
		Company:         s.Company,
		RoundType:       s.RoundType,
		Difficulty:      s.Difficulty,
		InterviewStyle:  s.InterviewStyle,
		InterviewerID:   s.InterviewerID,
		Duration:        s.ScheduledDuration,
		QuestionTypes:   s.Settings.QuestionTypes,
		EvaluationFocus: s.Settings.EvaluationFocus,
	}
	if s.Settings.RealtimeHints {
		req.SpecialSettings = append(req.SpecialSettings, "realtime_hints")
	}
	if s.Settings.StrictTiming {
		req.SpecialSettings = append(req.SpecialSettings, "strict_timing")
	}
	return req, nil
}

// Delete removes the session with its questions, answers and media, then
// recomputes the owner's statistics.
func (c *Controller) Delete(ctx context.Context, userID, sessionID uint) error {
	unlock, err := c.locker.Lock(ctx, sessionKey(sessionID))
	if err != nil {
		return err
	}
	defer unlock()

	detail, err := c.Detail(ctx, userID, sessionID)
	if err != nil {
		metrics.ObserveAction("delete", err)
		return err
	}
	err = translate(c.sessions.Delete(ctx, sessionID))
	metrics.ObserveAction("delete", err)
	if err != nil {
		return err
	}

	for _, slot := range detail.Slots {
		if slot.Answer == nil || c.files == nil {
			continue
		}
		for _, key := range []string{slot.Answer.AudioPath, slot.Answer.VideoPath} {
			if key == "" {
				continue
			}
			if err := c.files.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				c.logger.Warn("failed to delete media", zap.String("key", key), zap.Error(err))
			}
		}
	}
	c.logger.Info("interview deleted", zap.Uint("session_id", sessionID), zap.Uint("user_id", userID))
	c.refreshStatistics(ctx, userID)
	return nil
}
