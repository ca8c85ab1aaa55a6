// Package events carries session lifecycle changes to live subscribers.
package events

import (
	"context"
	"time"

	"interviewprep/internal/models"
)

const Channel = "interview_events"

// Event is a lifecycle change of one session.
type Event struct {
	Type              string        `json:"type"`
	SessionID         uint          `json:"sessionId"`
	UserID            uint          `json:"userId"`
	Status            models.Status `json:"status"`
	Phase             models.Phase  `json:"phase"`
	IsPaused          bool          `json:"isPaused"`
	AnsweredQuestions int           `json:"answeredQuestions"`
	TotalQuestions    int           `json:"totalQuestions"`
	CurrentSlotID     *uint         `json:"currentSlotId,omitempty"`
	At                time.Time     `json:"at"`
	InstanceID        string        `json:"instanceId,omitempty"`
}

// FromSession builds an event describing s after action.
func FromSession(action string, s *models.Session, current *models.QuestionSlot) Event {
	ev := Event{
		Type:              action,
		SessionID:         s.ID,
		UserID:            s.UserID,
		Status:            s.Status,
		Phase:             s.Phase,
		IsPaused:          s.IsPaused,
		AnsweredQuestions: s.AnsweredQuestions,
		TotalQuestions:    s.TotalQuestions,
		At:                time.Now().UTC(),
	}
	if current != nil {
		id := current.ID
		ev.CurrentSlotID = &id
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Sink receives events on this instance.
type Sink interface {
	Deliver(ev Event)
}

// LocalPublisher hands events straight to a sink on the same instance.
type LocalPublisher struct {
	sink Sink
}

func NewLocalPublisher(sink Sink) *LocalPublisher { return &LocalPublisher{sink: sink} }

func (p *LocalPublisher) Publish(_ context.Context, ev Event) error {
	p.sink.Deliver(ev)
	return nil
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
