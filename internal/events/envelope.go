// Package events carries portal domain events to downstream consumers.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source names this service in every envelope.
const Source = "ward-portal"

// ErrInvalidEvent is returned for events without a type or aggregate.
var ErrInvalidEvent = errors.New("events: invalid event")

// Event is a versioned domain event about one aggregate.
type Event interface {
	EventType() string
	AggregateID() string
}

// Envelope is the wire form of an Event.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	Source     string          `json:"source"`
	Aggregate  string          `json:"aggregate"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps evt with a fresh event id. OccurredAt is at in UTC.
func NewEnvelope(evt Event, at time.Time) (Envelope, error) {
	if evt == nil {
		return Envelope{}, fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	eventType := strings.TrimSpace(evt.EventType())
	aggregate := strings.TrimSpace(evt.AggregateID())
	if eventType == "" || aggregate == "" {
		return Envelope{}, fmt.Errorf("%w: type %q aggregate %q", ErrInvalidEvent, eventType, aggregate)
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal payload: %w", err)
	}
	return Envelope{
		EventID:    uuid.New(),
		EventType:  eventType,
		Source:     Source,
		Aggregate:  aggregate,
		OccurredAt: at.UTC(),
		Payload:    payload,
	}, nil
}

// BookingConfirmedV1 is emitted once per confirmed appointment.
type BookingConfirmedV1 struct {
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
	Service   string `json:"service"`
	Counter   string `json:"counter"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
}

func (BookingConfirmedV1) EventType() string { return "portal.booking.confirmed.v1" }

func (e BookingConfirmedV1) AggregateID() string {
	if e.BookingID == "" {
		return ""
	}
	return "booking:" + e.BookingID
}
