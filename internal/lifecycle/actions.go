package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"interviewprep/internal/evaluator"
	"interviewprep/internal/metrics"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/scoring"

	"go.uber.org/zap"
)

// Start creates a session with its planned questions; the first becomes current.
func (c *Controller) Start(ctx context.Context, userID uint, req models.StartInterviewRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if req.InterviewerID != 0 {
		if _, ok := c.catalog.Interviewer(req.InterviewerID); !ok {
			return nil, fmt.Errorf("%w: unknown interviewer %d", ErrValidation, req.InterviewerID)
		}
	}

	slots := c.planner.Plan(req)
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: no questions available", ErrValidation)
	}
	now := c.now()
	slots[0].Status = models.SlotCurrent
	slots[0].AskedAt = &now

	s := &models.Session{
		UserID:            userID,
		Mode:              req.Mode,
		Status:            models.StatusInProgress,
		Phase:             models.PhaseIntro,
		Position:          req.Position,
		Company:           req.Company,
		RoundType:         req.RoundType,
		Difficulty:        req.Difficulty,
		InterviewStyle:    req.InterviewStyle,
		InterviewerID:     req.InterviewerID,
		ScheduledDuration: req.Duration,
		TotalQuestions:    len(slots),
		StartedAt:         &now,
		LastActivity:      &now,
		Settings: models.SessionSettings{
			AllowPause:      req.Mode == models.ModePractice,
			AllowHints:      req.Mode == models.ModePractice && req.HasSetting("realtime_hints"),
			RealtimeHints:   req.HasSetting("realtime_hints"),
			StrictTiming:    req.HasSetting("strict_timing"),
			QuestionTypes:   req.QuestionTypes,
			EvaluationFocus: req.EvaluationFocus,
		},
		PhaseInfo: models.PhaseInfo{Index: 0, Total: len(models.Phases), UpdatedAt: &now},
	}

	var snap *Snapshot
	err := c.sessions.Transaction(ctx, func(tx *repositories.SessionRepository) error {
		if err := tx.CreateWithSlots(ctx, s, slots); err != nil {
			return translate(err)
		}
		var err error
		snap, err = buildSnapshot(ctx, tx, s)
		return err
	})
	metrics.ObserveAction("start", err)
	if err != nil {
		return nil, err
	}
	c.logger.Info("interview started",
		zap.Uint("session_id", s.ID),
		zap.Uint("user_id", userID),
		zap.String("mode", string(s.Mode)),
		zap.Int("questions", len(slots)))
	c.publish(ctx, "start", snap)
	return snap, nil
}

func (c *Controller) Pause(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	return c.act(ctx, "pause", userID, sessionID, func(_ context.Context, _ *repositories.SessionRepository, s *models.Session) error {
		if err := requirePractice(s, "pause"); err != nil {
			return err
		}
		if err := requireActive(s); err != nil {
			return err
		}
		s.IsPaused = true
		s.IsRecording = false
		s.PauseCount++
		return nil
	})
}

func (c *Controller) Resume(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	return c.act(ctx, "resume", userID, sessionID, func(_ context.Context, _ *repositories.SessionRepository, s *models.Session) error {
		if !s.IsPaused {
			return invalid("session is not paused")
		}
		s.IsPaused = false
		return nil
	})
}

// Skip marks a question skipped and moves on to the next one.
func (c *Controller) Skip(ctx context.Context, userID, sessionID uint, req models.SkipRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return c.act(ctx, "skip", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requirePractice(s, "skip"); err != nil {
			return err
		}
		if err := requireActive(s); err != nil {
			return err
		}
		slot, err := openSlot(ctx, tx, s, req.SlotID)
		if err != nil {
			return err
		}
		reason := req.Reason
		if reason == "" {
			reason = "user_skip"
		}
		now := c.now()
		slot.Status = models.SlotSkipped
		slot.SkipReason = reason
		slot.AnsweredAt = &now
		if err := tx.SaveSlot(ctx, slot); err != nil {
			return err
		}

		ans, err := answerFor(ctx, tx, slot)
		if err != nil {
			return err
		}
		ans.IsComplete = false
		ans.SkipReason = reason
		ans.SubmittedAt = &now
		if err := tx.SaveAnswer(ctx, ans); err != nil {
			return err
		}
		s.IsRecording = false
		return c.advance(ctx, tx, s)
	})
}

// Answer records and scores an answer, then moves on to the next question.
// Evaluation runs under the session lock but outside the transaction.
func (c *Controller) Answer(ctx context.Context, userID, sessionID uint, req models.AnswerRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	unlock, err := c.locker.Lock(ctx, sessionKey(sessionID))
	if err != nil {
		metrics.ObserveAction("answer", err)
		return nil, err
	}
	defer unlock()

	result, err := c.evaluateAnswer(ctx, userID, sessionID, req)
	if err != nil {
		metrics.ObserveAction("answer", err)
		return nil, err
	}

	snap, err := c.apply(ctx, userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		slot, err := openSlot(ctx, tx, s, req.SlotID)
		if err != nil {
			return err
		}
		ans, err := answerFor(ctx, tx, slot)
		if err != nil {
			return err
		}

		now := c.now()
		ans.Text = req.Text
		ans.Scores = result.Scores
		ans.Feedback = result.Feedback
		ans.Evaluator = result.Evaluator
		ans.IsComplete = true
		ans.SkipReason = ""
		ans.SubmittedAt = &now
		if err := tx.SaveAnswer(ctx, ans); err != nil {
			return err
		}

		slot.Status = models.SlotAnswered
		slot.AnsweredAt = &now
		slot.TimeSpentSec = req.TimeSpentSec
		if slot.TimeSpentSec == nil && slot.AskedAt != nil {
			spent := int(now.Sub(*slot.AskedAt).Seconds())
			slot.TimeSpentSec = &spent
		}
		if err := tx.SaveSlot(ctx, slot); err != nil {
			return err
		}

		s.AnsweredQuestions++
		s.IsRecording = false
		return c.advance(ctx, tx, s)
	})
	metrics.ObserveAction("answer", err)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, "answer", snap)
	return snap, nil
}

// evaluateAnswer checks the answer is acceptable and scores it. Scores
// supplied by the client replace the evaluator's per dimension.
func (c *Controller) evaluateAnswer(ctx context.Context, userID, sessionID uint, req models.AnswerRequest) (*evaluator.Result, error) {
	s, err := c.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(s); err != nil {
		return nil, err
	}
	slot, err := c.sessions.GetSlot(ctx, sessionID, req.SlotID)
	if err != nil {
		return nil, translate(err)
	}
	if !slot.Status.Open() {
		return nil, invalid("question %d is already %s", slot.Sequence, slot.Status)
	}
	existing, err := c.sessions.GetAnswer(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	hasMedia := existing != nil && (existing.AudioPath != "" || existing.VideoPath != "")

	if req.Scores != nil && fullCard(*req.Scores) {
		return &evaluator.Result{Scores: *req.Scores, Evaluator: "client"}, nil
	}

	res, err := c.evaluator.Evaluate(ctx, evaluator.Request{
		Mode:         s.Mode,
		QuestionText: slot.Text,
		QuestionType: slot.Type,
		Difficulty:   slot.Difficulty,
		Category:     slot.Category,
		AnswerText:   strings.TrimSpace(req.Text),
		HasMedia:     hasMedia,
		TimeSpentSec: req.TimeSpentSec,
		UsedHint:     existing != nil && existing.UsedHint,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}
	if req.Scores != nil {
		for _, d := range append([]models.Dimension{models.DimensionOverall}, models.Dimensions...) {
			if v := req.Scores.Get(d); v != nil {
				cp := *v
				res.Scores.Set(d, &cp)
			}
		}
	}
	return res, nil
}

func fullCard(card models.ScoreCard) bool {
	if card.Overall == nil {
		return false
	}
	for _, d := range models.Dimensions {
		if card.Get(d) == nil {
			return false
		}
	}
	return true
}

// AdvancePhase moves to the next interview phase.
func (c *Controller) AdvancePhase(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	return c.act(ctx, "advance_phase", userID, sessionID, func(_ context.Context, _ *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		next, ok := s.Phase.Next()
		if !ok {
			return invalid("phase %s is the last phase", s.Phase)
		}
		c.setPhase(s, next)
		return nil
	})
}

// SetPhase jumps to phase directly.
func (c *Controller) SetPhase(ctx context.Context, userID, sessionID uint, req models.PhaseRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return c.act(ctx, "set_phase", userID, sessionID, func(_ context.Context, _ *repositories.SessionRepository, s *models.Session) error {
		if err := requireActive(s); err != nil {
			return err
		}
		c.setPhase(s, req.Phase)
		return nil
	})
}

func (c *Controller) setPhase(s *models.Session, p models.Phase) {
	now := c.now()
	s.Phase = p
	s.PhaseInfo = models.PhaseInfo{Index: p.Index(), Total: len(models.Phases), UpdatedAt: &now}
}

// Complete finishes the session, scores it and records a trend point.
func (c *Controller) Complete(ctx context.Context, userID, sessionID uint) (*Snapshot, error) {
	snap, err := c.act(ctx, "complete", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		if err := requireInProgress(s); err != nil {
			return err
		}
		s.Status = models.StatusCompleted
		c.stampFinished(s)
		if err := c.finalize(ctx, tx, s); err != nil {
			return err
		}
		skipped, err := tx.CountSlots(ctx, s.ID, models.SlotSkipped)
		if err != nil {
			return err
		}
		point := scoring.BuildTrendPoint(s, skipped)
		return tx.AppendTrendPoint(ctx, &point)
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionFinished(string(snap.Session.Mode), string(snap.Session.Status))
	c.logger.Info("interview completed",
		zap.Uint("session_id", sessionID),
		zap.Int("answered", snap.Session.AnsweredQuestions),
		zap.Float64("overall", *snap.Session.Scores.Overall))
	c.refreshStatistics(ctx, userID)
	return snap, nil
}

// EmergencyExit interrupts the session. Scores are only computed when at
// least one question was answered. Repeating it on an interrupted session
// changes nothing.
func (c *Controller) EmergencyExit(ctx context.Context, userID, sessionID uint, req models.EmergencyExitRequest) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	repeated := false
	snap, err := c.act(ctx, "emergency_exit", userID, sessionID, func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
		switch s.Status {
		case models.StatusCompleted:
			return invalid("session is already completed")
		case models.StatusInterrupted:
			repeated = true
			return nil
		}
		s.Status = models.StatusInterrupted
		s.IsEmergencyExit = true
		s.ExitReason = req.Reason
		c.stampFinished(s)
		if s.AnsweredQuestions == 0 {
			return nil
		}
		return c.finalize(ctx, tx, s)
	})
	if err != nil || repeated {
		return snap, err
	}
	metrics.SessionFinished(string(snap.Session.Mode), string(snap.Session.Status))
	c.logger.Info("interview interrupted",
		zap.Uint("session_id", sessionID),
		zap.String("reason", req.Reason),
		zap.Int("answered", snap.Session.AnsweredQuestions))
	c.refreshStatistics(ctx, userID)
	return snap, nil
}
