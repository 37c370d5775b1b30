package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a progress notification.
type EventType string

// Event types published on the bus.
const (
	EventSessionStarted EventType = "session:started"
	EventSessionStopped EventType = "session:stopped"
	EventSessionError   EventType = "session:error"

	EventProviderRequest  EventType = "provider:request"
	EventProviderResponse EventType = "provider:response"
	EventProviderError    EventType = "provider:error"

	EventStrategyPhaseStarted   EventType = "strategy:phaseStarted"
	EventStrategyPhaseCompleted EventType = "strategy:phaseCompleted"

	EventMeetingStarted   EventType = "meeting:started"
	EventMeetingTurn      EventType = "meeting:turn"
	EventMeetingDecision  EventType = "meeting:decision"
	EventMeetingCompleted EventType = "meeting:completed"
	EventMeetingFailed    EventType = "meeting:failed"

	EventPipelineStarted        EventType = "pipeline:started"
	EventPipelineStageStarted   EventType = "pipeline:stageStarted"
	EventPipelineStageCompleted EventType = "pipeline:stageCompleted"
	EventPipelineCompleted      EventType = "pipeline:completed"
)

// Event is an immutable progress notification. Data carries type-specific
// key/value details (agent, phase, turn, ...).
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event stamped with the current UTC time.
func NewEvent(t EventType, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{ID: NewID(), Type: t, Timestamp: time.Now().UTC(), Data: data}
}

// Publisher accepts events for delivery to subscribers.
type Publisher interface {
	Publish(Event)
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(Event) {}

// NewID generates a new unique identifier.
func NewID() string { return uuid.NewString() }
