package repositories

import (
	"context"
	"errors"
	"fmt"

	"interviewprep/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSlotNotFound    = errors.New("question slot not found")
	// ErrInvalidSlots is returned when a write would break slot ordering or
	// leave more than one slot current in a session.
	ErrInvalidSlots = errors.New("invalid question slots")
)

// SessionFilter narrows ListByOwner results. Zero values mean no filter.
type SessionFilter struct {
	Mode     models.Mode
	Status   models.Status
	Position string
}

type SessionRepository struct {
	DB *gorm.DB
}

// Transaction runs fn against a repository bound to a single database transaction.
func (r *SessionRepository) Transaction(ctx context.Context, fn func(tx *SessionRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SessionRepository{DB: tx})
	})
}

// CreateWithSlots inserts a session together with its ordered question slots.
func (r *SessionRepository) CreateWithSlots(ctx context.Context, session *models.Session, slots []models.QuestionSlot) error {
	if err := validateSlots(slots); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(session).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		for i := range slots {
			slots[i].SessionID = session.ID
		}
		if err := tx.Omit(clause.Associations).Create(&slots).Error; err != nil {
			return err
		}
		session.Slots = slots
		return nil
	})
}

func validateSlots(slots []models.QuestionSlot) error {
	current := 0
	for i, s := range slots {
		if i > 0 && s.Sequence <= slots[i-1].Sequence {
			return fmt.Errorf("%w: sequence %d after %d", ErrInvalidSlots, s.Sequence, slots[i-1].Sequence)
		}
		if s.Status == models.SlotCurrent {
			current++
		}
	}
	if current > 1 {
		return fmt.Errorf("%w: %d current slots", ErrInvalidSlots, current)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uint) (*models.Session, error) {
	return r.get(r.DB.WithContext(ctx), id)
}

// GetForUpdate loads a session and, on postgres, row-locks it for the
// surrounding transaction.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id uint) (*models.Session, error) {
	db := r.DB.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.get(db, id)
}

func (r *SessionRepository) get(db *gorm.DB, id uint) (*models.Session, error) {
	var s models.Session
	err := db.First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetDetail loads a session with its slots in sequence order and their answers.
func (r *SessionRepository) GetDetail(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	err := r.DB.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("Slots.Answer").
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns one page of a user's sessions, newest first, and the total count.
func (r *SessionRepository) ListByOwner(ctx context.Context, userID uint, filter SessionFilter, page, limit int) ([]models.Session, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Session{}).Where("user_id = ?", userID)
	if filter.Mode != "" {
		query = query.Where("mode = ?", filter.Mode)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sessions := []models.Session{}
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Save persists the session row only; slots and answers are written separately.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(session).Error
}

func (r *SessionRepository) Slots(ctx context.Context, sessionID uint) ([]models.QuestionSlot, error) {
	slots := []models.QuestionSlot{}
	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Order("sequence ASC").Find(&slots).Error
	return slots, err
}

// GetSlot loads a slot that belongs to sessionID.
func (r *SessionRepository) GetSlot(ctx context.Context, sessionID, slotID uint) (*models.QuestionSlot, error) {
	var slot models.QuestionSlot
	err := r.DB.WithContext(ctx).Where("id = ? AND session_id = ?", slotID, sessionID).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// CurrentSlot returns the session's current slot, or nil when there is none.
func (r *SessionRepository) CurrentSlot(ctx context.Context, sessionID uint) (*models.QuestionSlot, error) {
	return r.firstSlot(ctx, sessionID, models.SlotCurrent)
}

// NextPendingSlot returns the lowest-sequence pending slot, or nil.
func (r *SessionRepository) NextPendingSlot(ctx context.Context, sessionID uint) (*models.QuestionSlot, error) {
	return r.firstSlot(ctx, sessionID, models.SlotPending)
}

func (r *SessionRepository) firstSlot(ctx context.Context, sessionID uint, status models.SlotStatus) (*models.QuestionSlot, error) {
	var slot models.QuestionSlot
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND status = ?", sessionID, status).
		Order("sequence ASC").
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// SaveSlot persists a slot, refusing to make a second slot current.
func (r *SessionRepository) SaveSlot(ctx context.Context, slot *models.QuestionSlot) error {
	db := r.DB.WithContext(ctx)
	if slot.Status == models.SlotCurrent {
		var others int64
		err := db.Model(&models.QuestionSlot{}).
			Where("session_id = ? AND status = ? AND id <> ?", slot.SessionID, models.SlotCurrent, slot.ID).
			Count(&others).Error
		if err != nil {
			return err
		}
		if others > 0 {
			return fmt.Errorf("%w: session %d already has a current slot", ErrInvalidSlots, slot.SessionID)
		}
	}
	return db.Omit(clause.Associations).Save(slot).Error
}

func (r *SessionRepository) CountSlots(ctx context.Context, sessionID uint, status models.SlotStatus) (int, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.QuestionSlot{}).
		Where("session_id = ? AND status = ?", sessionID, status).
		Count(&n).Error
	return int(n), err
}

// GetAnswer returns the answer recorded for a slot, or nil.
func (r *SessionRepository) GetAnswer(ctx context.Context, slotID uint) (*models.Answer, error) {
	var a models.Answer
	err := r.DB.WithContext(ctx).Where("slot_id = ?", slotID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SessionRepository) SaveAnswer(ctx context.Context, answer *models.Answer) error {
	return r.DB.WithContext(ctx).Save(answer).Error
}

// CompletedAnswers returns the session's complete answers in slot order.
func (r *SessionRepository) CompletedAnswers(ctx context.Context, sessionID uint) ([]models.Answer, error) {
	answers := []models.Answer{}
	err := r.DB.WithContext(ctx).
		Joins("JOIN question_slots ON question_slots.id = answers.slot_id").
		Where("answers.session_id = ? AND answers.is_complete = ?", sessionID, true).
		Order("question_slots.sequence ASC").
		Find(&answers).Error
	return answers, err
}

func (r *SessionRepository) CreateAnalysis(ctx context.Context, sample *models.AnalysisSample) error {
	return r.DB.WithContext(ctx).Create(sample).Error
}

// LatestAnalysis returns the newest sample for the session, or nil.
func (r *SessionRepository) LatestAnalysis(ctx context.Context, sessionID uint) (*models.AnalysisSample, error) {
	var sample models.AnalysisSample
	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Order("recorded_at DESC, id DESC").First(&sample).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// AppendTrendPoint inserts a trend point; an existing point for the same
// session is left untouched.
func (r *SessionRepository) AppendTrendPoint(ctx context.Context, point *models.TrendPoint) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(point).Error
}

// Delete removes a session together with its slots, answers and analysis samples.
// Trend points belong to the user and are kept.
func (r *SessionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Answer{}, &models.AnalysisSample{}, &models.QuestionSlot{}} {
			if err := tx.Where("session_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Session{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}
