package event

import (
	"strings"
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// Event is a scheduled association gathering with attendance tracking.
// Start and end times stay nil until an operator actually starts and ends
// the event; the scheduled day lives in Date.
type Event struct {
	shared.AssociationAggregateRoot
	Name         string
	Description  string
	Date         time.Time
	PenaltyPrice int
	StartTime    *time.Time
	EndTime      *time.Time
	FinalizedAt  *time.Time
}

// NewEvent creates a scheduled event. PenaltyPrice is the maximum charge
// for a fully absent household and must not be negative.
func NewEvent(
	associationID uuid.UUID,
	name string,
	description string,
	date time.Time,
	penaltyPrice int,
	createdBy string,
) (*Event, error) {
	if associationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATION", "Association ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Event name cannot be empty")
	}
	if penaltyPrice < 0 {
		return nil, shared.NewDomainError("INVALID_PENALTY_PRICE", "Event penalty price cannot be negative")
	}

	e := &Event{
		AssociationAggregateRoot: shared.NewAssociationAggregateRootWithCreator(associationID, createdBy),
		Name:                     name,
		Description:              description,
		Date:                     shared.Midnight(date),
		PenaltyPrice:             penaltyPrice,
	}

	e.AddDomainEvent(NewEventScheduledEvent(e))

	return e, nil
}

// Start records the moment the event actually began.
func (e *Event) Start(now time.Time) error {
	if e.FinalizedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Event is already finalized")
	}
	if e.StartTime != nil {
		return shared.NewDomainError("INVALID_STATE", "Event has already started")
	}

	e.StartTime = &now
	e.Touch()
	e.IncrementVersion()

	return nil
}

// End records the moment the event finished.
func (e *Event) End(now time.Time) error {
	if e.StartTime == nil {
		return shared.NewDomainError("INVALID_STATE", "Event has not started")
	}
	if e.EndTime != nil {
		return shared.NewDomainError("INVALID_STATE", "Event has already ended")
	}
	if now.Before(*e.StartTime) {
		return shared.NewDomainError("INVALID_STATE", "Event cannot end before it started")
	}

	e.EndTime = &now
	e.Touch()
	e.IncrementVersion()

	return nil
}

// DurationMinutes is the length of the event in whole minutes.
// Both start and end must have been recorded.
func (e *Event) DurationMinutes() (int, error) {
	if e.StartTime == nil || e.EndTime == nil {
		return 0, shared.NewDomainError("INVALID_STATE", "Event start and end times must both be set")
	}
	return int(e.EndTime.Sub(*e.StartTime).Minutes()), nil
}

// Finalize closes the event for penalty purposes. Attendance penalties
// are computed and invoiced exactly once; a second finalize is rejected.
func (e *Event) Finalize(now time.Time) error {
	if e.StartTime == nil || e.EndTime == nil {
		return shared.NewDomainError("INVALID_STATE", "Event start and end times must both be set")
	}
	if e.FinalizedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Event is already finalized")
	}

	e.FinalizedAt = &now
	e.Touch()
	e.IncrementVersion()

	e.AddDomainEvent(NewEventFinalizedEvent(e))

	return nil
}

// IsFinalized reports whether penalties have been issued for this event.
func (e *Event) IsFinalized() bool {
	return e.FinalizedAt != nil
}

// CanDelete reports whether the event may be removed. Events whose
// scheduled day has passed are part of the attendance record and stay.
func (e *Event) CanDelete(today time.Time) error {
	if shared.Midnight(today).After(e.Date) {
		return shared.NewDomainError("INVALID_STATE", "Events whose date has passed cannot be deleted")
	}
	if e.FinalizedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Finalized events cannot be deleted")
	}
	return nil
}
