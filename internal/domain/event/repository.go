package event

import (
	"context"
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// EventFilter defines filtering options for event queries
type EventFilter struct {
	shared.Filter
	DateFrom  *time.Time // Filter by scheduled date range start
	DateTo    *time.Time // Filter by scheduled date range end
	Finalized *bool      // Filter by finalization state
}

// EventRepository defines the interface for event persistence
type EventRepository interface {
	// FindByID finds an event by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// FindByIDForAssociation finds an event by ID scoped to an association
	FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*Event, error)

	// FindAllForAssociation finds all events for an association with filtering
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter EventFilter) ([]Event, error)

	// Save creates or updates an event
	Save(ctx context.Context, e *Event) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, e *Event) error

	// Delete soft deletes an event and its attendance records
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAssociation counts events for an association with optional filters
	CountForAssociation(ctx context.Context, associationID uuid.UUID, filter EventFilter) (int64, error)
}

// EventAttendanceRepository defines the interface for attendance persistence
type EventAttendanceRepository interface {
	// FindByID finds an attendance record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*EventAttendance, error)

	// FindByIDs finds attendance records by a set of IDs scoped to an association
	FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]EventAttendance, error)

	// FindByEvent finds every attendance record of one event
	FindByEvent(ctx context.Context, associationID, eventID uuid.UUID) ([]EventAttendance, error)

	// FindByEventAndAttended finds an event's records partitioned by attendance
	FindByEventAndAttended(ctx context.Context, associationID, eventID uuid.UUID, attended bool) ([]EventAttendance, error)

	// Save creates or updates an attendance record
	Save(ctx context.Context, a *EventAttendance) error

	// SaveAll persists a batch of attendance records
	SaveAll(ctx context.Context, records []*EventAttendance) error

	// DeleteByEvent removes all attendance records of one event
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) error
}
