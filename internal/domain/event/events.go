package event

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// EventScheduledEvent is raised when a new gathering is scheduled
type EventScheduledEvent struct {
	shared.BaseDomainEvent
	ScheduledEventID uuid.UUID `json:"scheduled_event_id"`
	Name             string    `json:"name"`
	Date             time.Time `json:"date"`
	PenaltyPrice     int       `json:"penalty_price"`
}

// EventType returns the event type name
func (e *EventScheduledEvent) EventType() string {
	return "EventScheduled"
}

// NewEventScheduledEvent creates a new EventScheduledEvent
func NewEventScheduledEvent(ev *Event) *EventScheduledEvent {
	return &EventScheduledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("EventScheduled", "Event", ev.ID, ev.AssociationID),
		ScheduledEventID: ev.ID,
		Name:             ev.Name,
		Date:             ev.Date,
		PenaltyPrice:     ev.PenaltyPrice,
	}
}

// EventFinalizedEvent is raised when attendance penalties are issued
type EventFinalizedEvent struct {
	shared.BaseDomainEvent
	ScheduledEventID uuid.UUID `json:"scheduled_event_id"`
	Name             string    `json:"name"`
	FinalizedAt      time.Time `json:"finalized_at"`
}

// EventType returns the event type name
func (e *EventFinalizedEvent) EventType() string {
	return "EventFinalized"
}

// NewEventFinalizedEvent creates a new EventFinalizedEvent
func NewEventFinalizedEvent(ev *Event) *EventFinalizedEvent {
	finalizedAt := time.Now()
	if ev.FinalizedAt != nil {
		finalizedAt = *ev.FinalizedAt
	}
	return &EventFinalizedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("EventFinalized", "Event", ev.ID, ev.AssociationID),
		ScheduledEventID: ev.ID,
		Name:             ev.Name,
		FinalizedAt:      finalizedAt,
	}
}
