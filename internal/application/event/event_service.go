package event

import (
	"context"
	"fmt"
	"time"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Days after the event day until a penalty invoice falls due.
const penaltyDueDays = 14

// EventService manages gatherings, their attendance roll and the penalty
// invoices issued when an event is finalized.
type EventService struct {
	eventRepo      event.EventRepository
	attendanceRepo event.EventAttendanceRepository
	householdRepo  community.HouseholdRepository
	invoiceService *appfinance.InvoiceService
	txManager      shared.TransactionManager
	clock          shared.Clock
	logger         *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo event.EventRepository,
	attendanceRepo event.EventAttendanceRepository,
	householdRepo community.HouseholdRepository,
	invoiceService *appfinance.InvoiceService,
	txManager shared.TransactionManager,
	clock shared.Clock,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		householdRepo:  householdRepo,
		invoiceService: invoiceService,
		txManager:      txManager,
		clock:          clock,
		logger:         logger,
	}
}

// CreateEventRequest represents a request to schedule an event
type CreateEventRequest struct {
	AssociationID uuid.UUID
	Name          string
	Description   string
	Date          time.Time
	PenaltyPrice  int
	CreatedBy     string
}

// EventWithAttendance is an event plus its roll, partitioned
type EventWithAttendance struct {
	Event    *event.Event            `json:"event"`
	Attended []event.EventAttendance `json:"attended"`
	Absent   []event.EventAttendance `json:"absent"`
}

// FinalizeResult reports what finalization issued
type FinalizeResult struct {
	EventID        uuid.UUID `json:"event_id"`
	Penalized      int       `json:"penalized"`
	InvoicesIssued int       `json:"invoices_issued"`
	GroupID        string    `json:"group_id"`
}

// Create schedules the event and bulk-creates one attendance record per
// household in the association, all initially absent.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*event.Event, error) {
	e, err := event.NewEvent(req.AssociationID, req.Name, req.Description,
		req.Date, req.PenaltyPrice, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		if err := s.eventRepo.Save(c, e); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}

		households, err := s.householdRepo.FindAllForAssociation(c, req.AssociationID, community.HouseholdFilter{})
		if err != nil {
			return fmt.Errorf("failed to load households: %w", err)
		}

		records := make([]*event.EventAttendance, 0, len(households))
		for i := range households {
			record, err := event.NewEventAttendance(req.AssociationID, e.ID, households[i].ID)
			if err != nil {
				return err
			}
			records = append(records, record)
		}

		if err := s.attendanceRepo.SaveAll(c, records); err != nil {
			return fmt.Errorf("failed to save attendance records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return e, nil
}

// Start records the actual start of the event.
func (s *EventService) Start(ctx context.Context, associationID, eventID uuid.UUID) (*event.Event, error) {
	e, err := s.getEvent(ctx, associationID, eventID)
	if err != nil {
		return nil, err
	}
	if err := e.Start(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.SaveWithLock(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return e, nil
}

// End records the actual end of the event.
func (s *EventService) End(ctx context.Context, associationID, eventID uuid.UUID) (*event.Event, error) {
	e, err := s.getEvent(ctx, associationID, eventID)
	if err != nil {
		return nil, err
	}
	if err := e.End(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.SaveWithLock(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return e, nil
}

// RecordEntry stamps an entry on each given attendance record. A missing
// record is skipped; re-entry resets any earlier exit.
func (s *EventService) RecordEntry(ctx context.Context, associationID uuid.UUID, attendanceIDs []uuid.UUID) error {
	records, err := s.attendanceRepo.FindByIDs(ctx, associationID, attendanceIDs)
	if err != nil {
		return fmt.Errorf("failed to load attendance records: %w", err)
	}

	now := s.clock.Now()
	for i := range records {
		records[i].RecordEntry(now)
		if err := s.attendanceRepo.Save(ctx, &records[i]); err != nil {
			return fmt.Errorf("failed to save attendance record: %w", err)
		}
	}
	return nil
}

// RecordExit stamps an exit on each given attendance record.
func (s *EventService) RecordExit(ctx context.Context, associationID uuid.UUID, attendanceIDs []uuid.UUID) error {
	records, err := s.attendanceRepo.FindByIDs(ctx, associationID, attendanceIDs)
	if err != nil {
		return fmt.Errorf("failed to load attendance records: %w", err)
	}

	now := s.clock.Now()
	for i := range records {
		records[i].RecordExit(now)
		if err := s.attendanceRepo.Save(ctx, &records[i]); err != nil {
			return fmt.Errorf("failed to save attendance record: %w", err)
		}
	}
	return nil
}

// Get returns an event with its roll partitioned into attended and absent.
func (s *EventService) Get(ctx context.Context, associationID, eventID uuid.UUID) (*EventWithAttendance, error) {
	e, err := s.getEvent(ctx, associationID, eventID)
	if err != nil {
		return nil, err
	}

	attended, err := s.attendanceRepo.FindByEventAndAttended(ctx, associationID, eventID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	absent, err := s.attendanceRepo.FindByEventAndAttended(ctx, associationID, eventID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	return &EventWithAttendance{Event: e, Attended: attended, Absent: absent}, nil
}

// List returns events matching the filter.
func (s *EventService) List(ctx context.Context, associationID uuid.UUID, filter event.EventFilter) ([]event.Event, error) {
	events, err := s.eventRepo.FindAllForAssociation(ctx, associationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Delete removes an event that has not yet taken place, together with its
// attendance roll.
func (s *EventService) Delete(ctx context.Context, associationID, eventID uuid.UUID) error {
	e, err := s.getEvent(ctx, associationID, eventID)
	if err != nil {
		return err
	}
	if err := e.CanDelete(s.clock.Today()); err != nil {
		return err
	}

	return s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		if err := s.attendanceRepo.DeleteByEvent(c, e.ID); err != nil {
			return fmt.Errorf("failed to delete attendance records: %w", err)
		}
		if err := s.eventRepo.Delete(c, e.ID); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}

// Finalize computes every attendee's penalty once, persists it, and issues
// one invoice per penalized household, all tagged with a shared group and
// due fourteen days after the event day, or today for later finalizations.
// Finalizing twice is rejected.
func (s *EventService) Finalize(ctx context.Context, associationID, eventID uuid.UUID, createdBy string) (*FinalizeResult, error) {
	var result *FinalizeResult

	err := s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		e, err := s.getEvent(c, associationID, eventID)
		if err != nil {
			return err
		}
		if err := e.Finalize(s.clock.Now()); err != nil {
			return err
		}

		records, err := s.attendanceRepo.FindByEvent(c, associationID, eventID)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}

		groupID := finance.NewGroupID()
		// Finalizing more than penaltyDueDays after the event would derive
		// a due date invoice creation rejects as past. Clamp to today.
		dueDate := e.Date.AddDate(0, 0, penaltyDueDays)
		if today := s.clock.Today(); dueDate.Before(today) {
			dueDate = today
		}
		res := &FinalizeResult{EventID: eventID, GroupID: groupID}

		for i := range records {
			penalty, lateMinutes, err := records[i].ComputePenalty(e)
			if err != nil {
				return err
			}
			if !penalty.IsPositive() {
				continue
			}

			records[i].ApplyPenalty(penalty, lateMinutes)
			if err := s.attendanceRepo.Save(c, &records[i]); err != nil {
				return fmt.Errorf("failed to save attendance record: %w", err)
			}
			res.Penalized++

			_, err = s.invoiceService.Create(c, appfinance.CreateInvoiceRequest{
				AssociationID: associationID,
				HouseholdID:   records[i].HouseholdID,
				Amount:        penalty,
				Reason:        fmt.Sprintf("Penalty for event %s", e.Name),
				DueDate:       dueDate,
				CreatedBy:     createdBy,
				GroupID:       groupID,
			})
			if err != nil {
				return err
			}
			res.InvoicesIssued++
		}

		if err := s.eventRepo.SaveWithLock(c, e); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event finalized",
		zap.String("event_id", eventID.String()),
		zap.Int("invoices_issued", result.InvoicesIssued))

	return result, nil
}

func (s *EventService) getEvent(ctx context.Context, associationID, eventID uuid.UUID) (*event.Event, error) {
	e, err := s.eventRepo.FindByIDForAssociation(ctx, associationID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if e == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Event not found")
	}
	return e, nil
}
