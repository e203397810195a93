package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TypeStatsInvalidated is emitted after a write that changes user stats.
const TypeStatsInvalidated = "stats_invalidated"

// Event is a notification published through an EventEmitter.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an event of eventType carrying payload as JSON.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// Reasons carried by StatsInvalidated.
const (
	ReasonLessonCompleted = "lesson_completed"
	ReasonEnergyConsumed  = "energy_consumed"
)

// StatsInvalidated is the payload of TypeStatsInvalidated. Energy holds the
// balance returned by an energy write, when there was one.
type StatsInvalidated struct {
	Reason   string `json:"reason"`
	LessonID string `json:"lesson_id,omitempty"`
	Energy   *int   `json:"energy,omitempty"`
}

// NewStatsInvalidatedEvent wraps payload in an event.
func NewStatsInvalidatedEvent(payload StatsInvalidated) (*Event, error) {
	return NewEvent(TypeStatsInvalidated, payload)
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to handlers it knows about.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
