// Package events is a small process-local publish/subscribe layer. Modules
// publish facts after they are committed; subscribers react without the
// publisher knowing about them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a committed fact. EventName is the subscription key.
type Event interface {
	EventName() string
	EventID() uuid.UUID
	OccurredAt() time.Time
}

// BaseEvent carries the identity and time of an event. Concrete events embed it.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() uuid.UUID { return e.ID }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a fresh id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to the handlers subscribed to their name.
type Bus interface {
	// Publish is fire-and-forget: handler errors never reach the caller.
	Publish(ctx context.Context, event Event)
	// PublishSync runs handlers inline and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
