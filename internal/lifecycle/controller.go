// Package lifecycle drives interview sessions through their states.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interviewprep/internal/catalog"
	"interviewprep/internal/evaluator"
	"interviewprep/internal/events"
	"interviewprep/internal/locks"
	"interviewprep/internal/metrics"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/scoring"
	"interviewprep/internal/storage"

	"go.uber.org/zap"
)

// Deps wires a Controller. Locker, Publisher and Logger are optional.
type Deps struct {
	Sessions   *repositories.SessionRepository
	Statistics *scoring.StatisticsService
	Catalog    *catalog.Catalog
	Evaluator  evaluator.Evaluator
	Aggregator *scoring.Aggregator
	Files      storage.FileStore
	Locker     locks.Locker
	Publisher  events.Publisher
	Logger     *zap.Logger
}

// Controller owns every state change of a session. Actions on one session
// are serialised by the locker and each runs in a single transaction.
type Controller struct {
	sessions   *repositories.SessionRepository
	statistics *scoring.StatisticsService
	catalog    *catalog.Catalog
	evaluator  evaluator.Evaluator
	aggregator *scoring.Aggregator
	planner    *QuestionPlanner
	files      storage.FileStore
	locker     locks.Locker
	publisher  events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewController(d Deps) *Controller {
	c := &Controller{
		sessions:   d.Sessions,
		statistics: d.Statistics,
		catalog:    d.Catalog,
		evaluator:  d.Evaluator,
		aggregator: d.Aggregator,
		planner:    NewQuestionPlanner(d.Catalog),
		files:      d.Files,
		locker:     d.Locker,
		publisher:  d.Publisher,
		logger:     d.Logger,
		now:        time.Now,
	}
	if c.locker == nil {
		c.locker = locks.NewKeyedMutex()
	}
	if c.publisher == nil {
		c.publisher = events.Nop{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// mutation is the body of an action. It runs inside the session transaction
// with the session row already loaded and ownership checked.
type mutation func(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error

func sessionKey(id uint) string { return fmt.Sprintf("session:%d", id) }

// act serialises, applies and publishes one action.
func (c *Controller) act(ctx context.Context, action string, userID, sessionID uint, fn mutation) (*Snapshot, error) {
	unlock, err := c.locker.Lock(ctx, sessionKey(sessionID))
	if err != nil {
		metrics.ObserveAction(action, err)
		return nil, err
	}
	defer unlock()

	snap, err := c.apply(ctx, userID, sessionID, fn)
	metrics.ObserveAction(action, err)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, action, snap)
	return snap, nil
}

// apply runs fn in a transaction and returns the resulting snapshot.
// The caller must hold the session lock.
func (c *Controller) apply(ctx context.Context, userID, sessionID uint, fn mutation) (*Snapshot, error) {
	var snap *Snapshot
	err := c.sessions.Transaction(ctx, func(tx *repositories.SessionRepository) error {
		s, err := tx.GetForUpdate(ctx, sessionID)
		if err != nil {
			return translate(err)
		}
		if s.UserID != userID {
			return fmt.Errorf("%w: session %d belongs to another user", ErrForbidden, sessionID)
		}
		if err := fn(ctx, tx, s); err != nil {
			return translate(err)
		}
		now := c.now()
		s.LastActivity = &now
		if err := tx.Save(ctx, s); err != nil {
			return err
		}
		snap, err = buildSnapshot(ctx, tx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// load reads a session outside any transaction and checks ownership.
func (c *Controller) load(ctx context.Context, userID, sessionID uint) (*models.Session, error) {
	s, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, translate(err)
	}
	if s.UserID != userID {
		return nil, fmt.Errorf("%w: session %d belongs to another user", ErrForbidden, sessionID)
	}
	return s, nil
}

func (c *Controller) publish(ctx context.Context, action string, snap *Snapshot) {
	ev := events.FromSession(action, snap.Session, snap.CurrentSlot)
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.logger.Warn("failed to publish session event",
			zap.String("action", action),
			zap.Uint("session_id", snap.Session.ID),
			zap.Error(err))
	}
}

// refreshStatistics recomputes the owner's statistics after a commit. The
// nightly rebuild repairs anything a failure here leaves behind.
func (c *Controller) refreshStatistics(ctx context.Context, userID uint) {
	if c.statistics == nil {
		return
	}
	if _, err := c.statistics.Recompute(ctx, userID); err != nil {
		c.logger.Error("failed to recompute statistics", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func requireInProgress(s *models.Session) error {
	if s.Status != models.StatusInProgress {
		return invalid("session is %s", s.Status)
	}
	return nil
}

func requireActive(s *models.Session) error {
	if err := requireInProgress(s); err != nil {
		return err
	}
	if s.IsPaused {
		return invalid("session is paused")
	}
	return nil
}

func requirePractice(s *models.Session, action string) error {
	if s.Mode != models.ModePractice {
		return invalid("%s is only available in practice mode", action)
	}
	return nil
}

func openSlot(ctx context.Context, tx *repositories.SessionRepository, s *models.Session, slotID uint) (*models.QuestionSlot, error) {
	slot, err := tx.GetSlot(ctx, s.ID, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.Status.Open() {
		return nil, invalid("question %d is already %s", slot.Sequence, slot.Status)
	}
	return slot, nil
}

// answerFor returns the slot's answer, or a new unsaved one.
func answerFor(ctx context.Context, tx *repositories.SessionRepository, slot *models.QuestionSlot) (*models.Answer, error) {
	a, err := tx.GetAnswer(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		a = &models.Answer{SessionID: slot.SessionID, SlotID: slot.ID}
	}
	return a, nil
}

// advance makes the lowest pending slot current when no slot is.
func (c *Controller) advance(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
	current, err := tx.CurrentSlot(ctx, s.ID)
	if err != nil || current != nil {
		return err
	}
	next, err := tx.NextPendingSlot(ctx, s.ID)
	if err != nil || next == nil {
		return err
	}
	now := c.now()
	next.Status = models.SlotCurrent
	next.AskedAt = &now
	return tx.SaveSlot(ctx, next)
}

// finalize scores a finished session and writes its report texts.
func (c *Controller) finalize(ctx context.Context, tx *repositories.SessionRepository, s *models.Session) error {
	answers, err := tx.CompletedAnswers(ctx, s.ID)
	if err != nil {
		return err
	}
	card, err := c.aggregator.Aggregate(s.Mode, answers)
	if errors.Is(err, scoring.ErrMissingScore) {
		c.logger.Error("aggregation failed, using baseline", zap.Uint("session_id", s.ID), zap.Error(err))
		metrics.AggregationFallback()
		card, err = c.aggregator.Baseline(), nil
	}
	if err != nil {
		return err
	}
	s.Scores = card
	report := scoring.BuildReport(c.catalog, s.Mode, s.Company, card)
	s.Feedback = report.Feedback
	s.KeyFeedback = report.KeyFeedback
	s.ImprovementSuggestions = report.ImprovementSuggestions
	return nil
}

func (c *Controller) stampFinished(s *models.Session) {
	now := c.now()
	s.CompletedAt = &now
	s.IsPaused = false
	s.IsRecording = false
	if s.StartedAt != nil {
		d := int(now.Sub(*s.StartedAt).Seconds())
		s.ActualDurationSec = &d
	}
}
