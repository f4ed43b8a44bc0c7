package event

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var twentyFive = decimal.NewFromInt(25)

// EventAttendance is the join record between an event and one household.
// One record exists per (event, household) pair, created in bulk when the
// event is created with attended=false and no timestamps.
type EventAttendance struct {
	shared.AssociationAggregateRoot
	EventID       uuid.UUID
	HouseholdID   uuid.UUID
	Attended      bool
	EntryTime     *time.Time
	ExitTime      *time.Time
	LateMinutes   int
	PenaltyAmount decimal.Decimal
}

// NewEventAttendance creates the initial absent record for one household.
func NewEventAttendance(associationID, eventID, householdID uuid.UUID) (*EventAttendance, error) {
	if eventID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}
	if householdID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOUSEHOLD", "Household ID cannot be empty")
	}

	return &EventAttendance{
		AssociationAggregateRoot: shared.NewAssociationAggregateRoot(associationID),
		EventID:                  eventID,
		HouseholdID:              householdID,
		Attended:                 false,
		PenaltyAmount:            decimal.Zero,
	}, nil
}

// RecordEntry marks the household as present at the door. Re-entering
// clears a previously recorded exit, so someone who stepped out and came
// back is treated as still present.
func (a *EventAttendance) RecordEntry(now time.Time) {
	a.EntryTime = &now
	a.ExitTime = nil
	a.Touch()
}

// RecordExit marks the household as having left. The exit timestamp is
// only taken once; attendance counts only when an entry was recorded too.
func (a *EventAttendance) RecordExit(now time.Time) {
	if a.ExitTime == nil {
		a.ExitTime = &now
	}
	if a.EntryTime != nil {
		a.Attended = true
	}
	a.Touch()
}

// ComputePenalty derives the attendance penalty from an event's window:
//
//   - not attended: the full penalty price, regardless of any stray
//     timestamps (entering but never exiting still counts as absent)
//   - attended with only one of entry/exit recorded: half the penalty
//     price (the re-entry case, where RecordEntry cleared the exit)
//   - attended with both recorded: late-entry minutes, or failing that
//     early-exit minutes, pro-rated against the event duration
//
// The result is rounded to the nearest multiple of 25 and never exceeds
// the penalty price. Alongside the amount it returns the minutes that
// drove a pro-rated charge, for reporting.
func (a *EventAttendance) ComputePenalty(e *Event) (decimal.Decimal, int, error) {
	duration, err := e.DurationMinutes()
	if err != nil {
		return decimal.Zero, 0, err
	}
	if duration <= 0 {
		return decimal.Zero, 0, shared.NewDomainError("INVALID_STATE", "Event duration must be positive")
	}

	price := decimal.NewFromInt(int64(e.PenaltyPrice))

	var penalty decimal.Decimal
	lateMinutes := 0

	switch {
	case !a.Attended:
		penalty = price
	case a.EntryTime == nil || a.ExitTime == nil:
		penalty = price.Div(decimal.NewFromInt(2))
	default:
		if e.StartTime != nil && a.EntryTime.After(*e.StartTime) {
			lateMinutes = int(a.EntryTime.Sub(*e.StartTime).Minutes())
		} else if e.EndTime != nil && a.ExitTime.Before(*e.EndTime) {
			lateMinutes = int(e.EndTime.Sub(*a.ExitTime).Minutes())
		}
		penalty = decimal.NewFromInt(int64(lateMinutes)).
			Div(decimal.NewFromInt(int64(duration))).
			Mul(price)
	}

	penalty = roundToNearest25(penalty)
	cap := floorToMultipleOf25(price)
	if penalty.GreaterThan(cap) {
		penalty = cap
	}
	if penalty.IsNegative() {
		penalty = decimal.Zero
	}

	return penalty, lateMinutes, nil
}

// ApplyPenalty stores a computed penalty on the record.
func (a *EventAttendance) ApplyPenalty(amount decimal.Decimal, lateMinutes int) {
	a.PenaltyAmount = amount
	a.LateMinutes = lateMinutes
	a.Touch()
	a.IncrementVersion()
}

func roundToNearest25(p decimal.Decimal) decimal.Decimal {
	return p.Div(twentyFive).Round(0).Mul(twentyFive)
}

func floorToMultipleOf25(p decimal.Decimal) decimal.Decimal {
	return p.Div(twentyFive).Floor().Mul(twentyFive)
}
