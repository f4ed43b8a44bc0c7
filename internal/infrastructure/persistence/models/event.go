package models

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventModel is the GORM model for association events
type EventModel struct {
	AssociationAggregateModel
	Name         string    `gorm:"type:varchar(200);not null"`
	Description  string    `gorm:"type:text"`
	Date         time.Time `gorm:"type:date;not null;index"`
	PenaltyPrice int       `gorm:"not null"`
	StartTime    *time.Time
	EndTime      *time.Time
	FinalizedAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for EventModel
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts EventModel to domain Event
func (m *EventModel) ToDomain() *event.Event {
	e := &event.Event{
		Name:         m.Name,
		Description:  m.Description,
		Date:         m.Date,
		PenaltyPrice: m.PenaltyPrice,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		FinalizedAt:  m.FinalizedAt,
	}
	m.PopulateAssociationAggregateRoot(&e.AssociationAggregateRoot)
	return e
}

// FromDomain converts domain Event to EventModel
func (m *EventModel) FromDomain(e *event.Event) {
	m.FromDomainAssociationAggregateRoot(e.AssociationAggregateRoot)
	m.Name = e.Name
	m.Description = e.Description
	m.Date = e.Date
	m.PenaltyPrice = e.PenaltyPrice
	m.StartTime = e.StartTime
	m.EndTime = e.EndTime
	m.FinalizedAt = e.FinalizedAt
}

// EventAttendanceModel is the GORM model for per-household attendance
// records. One record exists per (event, household) pair.
type EventAttendanceModel struct {
	AssociationAggregateModel
	EventID       uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_event_household"`
	HouseholdID   uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_event_household"`
	Attended      bool      `gorm:"not null;default:false"`
	EntryTime     *time.Time
	ExitTime      *time.Time
	LateMinutes   int             `gorm:"not null;default:0"`
	PenaltyAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name for EventAttendanceModel
func (EventAttendanceModel) TableName() string {
	return "event_attendances"
}

// ToDomain converts EventAttendanceModel to domain EventAttendance
func (m *EventAttendanceModel) ToDomain() *event.EventAttendance {
	a := &event.EventAttendance{
		EventID:       m.EventID,
		HouseholdID:   m.HouseholdID,
		Attended:      m.Attended,
		EntryTime:     m.EntryTime,
		ExitTime:      m.ExitTime,
		LateMinutes:   m.LateMinutes,
		PenaltyAmount: m.PenaltyAmount,
	}
	m.PopulateAssociationAggregateRoot(&a.AssociationAggregateRoot)
	return a
}

// FromDomain converts domain EventAttendance to EventAttendanceModel
func (m *EventAttendanceModel) FromDomain(a *event.EventAttendance) {
	m.FromDomainAssociationAggregateRoot(a.AssociationAggregateRoot)
	m.EventID = a.EventID
	m.HouseholdID = a.HouseholdID
	m.Attended = a.Attended
	m.EntryTime = a.EntryTime
	m.ExitTime = a.ExitTime
	m.LateMinutes = a.LateMinutes
	m.PenaltyAmount = a.PenaltyAmount
}
