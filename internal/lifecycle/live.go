package lifecycle

import (
	"context"
	"fmt"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
)

// UpdateInterviewer records what the virtual interviewer is doing.
func (c *Controller) UpdateInterviewer(ctx context.Context, userID, sessionID uint, req models.InterviewerStatusRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return c.act(ctx, "interviewer_status", userID, sessionID, func(_ context.Context, _ *repositories.SessionRepository, s *models.Session) error {
		if s.Mode != models.ModeSimulation {
			return invalid("interviewer status is only available in simulation mode")
		}
		if err := requireInProgress(s); err != nil {
			return err
		}
		now := c.now()
		s.Interviewer = models.InterviewerState{IsSpeaking: req.IsSpeaking, IsListening: req.IsListening, UpdatedAt: &now}
		if req.Phase != nil {
			c.setPhase(s, *req.Phase)
		}
		return nil
	})
}

// RecordAnalysis stores one batch of delivery metrics against the current question.
func (c *Controller) RecordAnalysis(ctx context.Context, userID, sessionID uint, req models.AnalysisRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return c.act(ctx, "analysis", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireInProgress(s); err != nil {
			return err
		}
		current, err := tx.CurrentSlot(ctx, s.ID)
		if err != nil {
			return err
		}
		sample := &models.AnalysisSample{
			SessionID:       s.ID,
			UserID:          s.UserID,
			AudioLevel:      req.AudioLevel,
			SpeechSpeed:     req.SpeechSpeed,
			EmotionType:     req.EmotionType,
			EyeContactScore: req.EyeContactScore,
			ConfidenceLevel: req.ConfidenceLevel,
			RecordedAt:      c.now(),
		}
		if current != nil {
			id := current.ID
			sample.SlotID = &id
		}
		return tx.CreateAnalysis(ctx, sample)
	})
}
