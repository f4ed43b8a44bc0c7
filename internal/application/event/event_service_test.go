package event

import (
	"context"
	"testing"
	"time"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock repositories for the event service tests
// =============================================================================

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*event.Event, error) {
	args := m.Called(ctx, associationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter event.EventFilter) ([]event.Event, error) {
	args := m.Called(ctx, associationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventRepository) Save(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) SaveWithLock(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter event.EventFilter) (int64, error) {
	args := m.Called(ctx, associationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.EventAttendance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.EventAttendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]event.EventAttendance, error) {
	args := m.Called(ctx, associationID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.EventAttendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByEvent(ctx context.Context, associationID, eventID uuid.UUID) ([]event.EventAttendance, error) {
	args := m.Called(ctx, associationID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.EventAttendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByEventAndAttended(ctx context.Context, associationID, eventID uuid.UUID, attended bool) ([]event.EventAttendance, error) {
	args := m.Called(ctx, associationID, eventID, attended)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.EventAttendance), args.Error(1)
}

func (m *MockAttendanceRepository) Save(ctx context.Context, a *event.EventAttendance) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttendanceRepository) SaveAll(ctx context.Context, records []*event.EventAttendance) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockAttendanceRepository) DeleteByEvent(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type MockHouseholdRepository struct {
	mock.Mock
}

func (m *MockHouseholdRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Household, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Household), args.Error(1)
}

func (m *MockHouseholdRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*community.Household, error) {
	args := m.Called(ctx, associationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Household), args.Error(1)
}

func (m *MockHouseholdRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter community.HouseholdFilter) ([]community.Household, error) {
	args := m.Called(ctx, associationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]community.Household), args.Error(1)
}

func (m *MockHouseholdRepository) ExistsByUnit(ctx context.Context, associationID uuid.UUID, buildingNo int, apartmentNumber string) (bool, error) {
	args := m.Called(ctx, associationID, buildingNo, apartmentNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockHouseholdRepository) Save(ctx context.Context, h *community.Household) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHouseholdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHouseholdRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, associationID)
	return args.Get(0).(int64), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, associationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, associationID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	args := m.Called(ctx, associationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByHousehold(ctx context.Context, associationID, householdID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	args := m.Called(ctx, associationID, householdID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByGroup(ctx context.Context, associationID uuid.UUID, groupID string) ([]finance.Invoice, error) {
	args := m.Called(ctx, associationID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindUnpaidByHousehold(ctx context.Context, associationID, householdID uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, associationID, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DistinctGroups(ctx context.Context, associationID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, associationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerAccountRepository struct {
	mock.Mock
}

func (m *MockLedgerAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindByAssociation(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindByAssociationForUpdate(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) SaveWithLock(ctx context.Context, account *finance.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type noopTxManager struct{}

func (noopTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	eventDay  = time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC)
	eventNow  = time.Date(2025, 7, 6, 9, 0, 0, 0, time.UTC)
	testClock = shared.FixedClock{Instant: eventNow}
)

type serviceFixture struct {
	svc            *EventService
	eventRepo      *MockEventRepository
	attendanceRepo *MockAttendanceRepository
	householdRepo  *MockHouseholdRepository
	invoiceRepo    *MockInvoiceRepository
}

func newFixture() *serviceFixture {
	return newFixtureAt(testClock)
}

func newFixtureAt(clock shared.Clock) *serviceFixture {
	eventRepo := new(MockEventRepository)
	attendanceRepo := new(MockAttendanceRepository)
	householdRepo := new(MockHouseholdRepository)
	invoiceRepo := new(MockInvoiceRepository)
	ledgerRepo := new(MockLedgerAccountRepository)

	invoiceService := appfinance.NewInvoiceService(
		invoiceRepo, ledgerRepo, householdRepo, noopTxManager{}, clock, zap.NewNop())

	return &serviceFixture{
		svc: NewEventService(
			eventRepo, attendanceRepo, householdRepo, invoiceService,
			noopTxManager{}, clock, zap.NewNop()),
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		householdRepo:  householdRepo,
		invoiceRepo:    invoiceRepo,
	}
}

func newScheduledEvent(t *testing.T, associationID uuid.UUID, penaltyPrice int) *event.Event {
	t.Helper()
	e, err := event.NewEvent(associationID, "General assembly", "Annual budget meeting", eventDay, penaltyPrice, "admin")
	require.NoError(t, err)
	return e
}

// completedEvent returns an event that ran from 08:00 to 10:00 on the event day.
func completedEvent(t *testing.T, associationID uuid.UUID, penaltyPrice int) *event.Event {
	t.Helper()
	e := newScheduledEvent(t, associationID, penaltyPrice)
	require.NoError(t, e.Start(eventDay.Add(8*time.Hour)))
	require.NoError(t, e.End(eventDay.Add(10*time.Hour)))
	return e
}

func newHousehold(t *testing.T, associationID uuid.UUID, apartment string) community.Household {
	t.Helper()
	h, err := community.NewHousehold(associationID, apartment, 7, "Head "+apartment, "0911000000")
	require.NoError(t, err)
	return *h
}

// =============================================================================
// Tests
// =============================================================================

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	t.Run("one attendance record per household", func(t *testing.T) {
		f := newFixture()

		households := []community.Household{
			newHousehold(t, associationID, "1A"),
			newHousehold(t, associationID, "1B"),
			newHousehold(t, associationID, "2A"),
		}

		f.eventRepo.On("Save", ctx, mock.AnythingOfType("*event.Event")).Return(nil)
		f.householdRepo.On("FindAllForAssociation", ctx, associationID, mock.Anything).Return(households, nil)

		var saved []*event.EventAttendance
		f.attendanceRepo.On("SaveAll", ctx, mock.MatchedBy(func(records []*event.EventAttendance) bool {
			saved = records
			return true
		})).Return(nil)

		e, err := f.svc.Create(ctx, CreateEventRequest{
			AssociationID: associationID,
			Name:          "General assembly",
			Date:          eventDay.AddDate(0, 0, 7),
			PenaltyPrice:  300,
			CreatedBy:     "admin",
		})
		require.NoError(t, err)
		require.Len(t, saved, 3)
		for _, record := range saved {
			assert.Equal(t, e.ID, record.EventID)
			assert.False(t, record.Attended)
		}
	})

	t.Run("invalid penalty price rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, CreateEventRequest{
			AssociationID: associationID,
			Name:          "General assembly",
			Date:          eventDay,
			PenaltyPrice:  -5,
		})
		require.Error(t, err)
	})
}

func TestEventService_RecordEntryAndExit(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()
	eventID := uuid.New()

	record, err := event.NewEventAttendance(associationID, eventID, uuid.New())
	require.NoError(t, err)

	f := newFixture()
	ids := []uuid.UUID{record.ID}
	f.attendanceRepo.On("FindByIDs", ctx, associationID, ids).Return([]event.EventAttendance{*record}, nil)
	f.attendanceRepo.On("Save", ctx, mock.MatchedBy(func(a *event.EventAttendance) bool {
		return a.EntryTime != nil && a.EntryTime.Equal(eventNow)
	})).Return(nil)

	require.NoError(t, f.svc.RecordEntry(ctx, associationID, ids))
	f.attendanceRepo.AssertExpectations(t)
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	t.Run("future event deleted with its roll", func(t *testing.T) {
		f := newFixture()
		e, err := event.NewEvent(associationID, "Cleanup day", "", eventDay.AddDate(0, 0, 30), 100, "admin")
		require.NoError(t, err)

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)
		f.attendanceRepo.On("DeleteByEvent", ctx, e.ID).Return(nil)
		f.eventRepo.On("Delete", ctx, e.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, associationID, e.ID))
		f.eventRepo.AssertExpectations(t)
	})

	t.Run("past event cannot be deleted", func(t *testing.T) {
		f := newFixture()
		e, err := event.NewEvent(associationID, "Old meeting", "", eventDay.AddDate(0, 0, -30), 100, "admin")
		require.NoError(t, err)

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)

		require.Error(t, f.svc.Delete(ctx, associationID, e.ID))
		f.attendanceRepo.AssertNotCalled(t, "DeleteByEvent", mock.Anything, mock.Anything)
	})
}

func TestEventService_Finalize(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	t.Run("issues one invoice per penalized household", func(t *testing.T) {
		f := newFixture()
		e := completedEvent(t, associationID, 300)

		absentee := newHousehold(t, associationID, "4A")
		punctualHome := newHousehold(t, associationID, "4B")

		absent, err := event.NewEventAttendance(associationID, e.ID, absentee.ID)
		require.NoError(t, err)
		punctual, err := event.NewEventAttendance(associationID, e.ID, punctualHome.ID)
		require.NoError(t, err)
		punctual.RecordEntry(eventDay.Add(8 * time.Hour))
		punctual.RecordExit(eventDay.Add(10 * time.Hour))

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)
		f.attendanceRepo.On("FindByEvent", ctx, associationID, e.ID).Return([]event.EventAttendance{*absent, *punctual}, nil)
		f.attendanceRepo.On("Save", ctx, mock.AnythingOfType("*event.EventAttendance")).Return(nil)
		f.eventRepo.On("SaveWithLock", ctx, e).Return(nil)
		f.householdRepo.On("FindByIDForAssociation", ctx, associationID, absentee.ID).Return(&absentee, nil)

		var issued []*finance.Invoice
		f.invoiceRepo.On("Save", ctx, mock.MatchedBy(func(inv *finance.Invoice) bool {
			issued = append(issued, inv)
			return true
		})).Return(nil)

		result, err := f.svc.Finalize(ctx, associationID, e.ID, "admin")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Penalized)
		assert.Equal(t, 1, result.InvoicesIssued)

		require.Len(t, issued, 1)
		assert.Equal(t, absentee.ID, issued[0].HouseholdID)
		assert.True(t, issued[0].Amount.Equal(decimal.NewFromInt(300)), "absence pays the full penalty price")
		assert.Equal(t, result.GroupID, issued[0].GroupID)
		// Due fourteen days after the event day.
		assert.True(t, issued[0].DueDate.Equal(eventDay.AddDate(0, 0, 14)))
		assert.True(t, e.IsFinalized())
	})

	t.Run("second finalize rejected", func(t *testing.T) {
		f := newFixture()
		e := completedEvent(t, associationID, 300)
		require.NoError(t, e.Finalize(eventNow))

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)

		_, err := f.svc.Finalize(ctx, associationID, e.ID, "admin")
		require.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("finalizing weeks later dues the invoices today", func(t *testing.T) {
		// Twenty days after the event the derived due date (event day plus
		// fourteen) is already past, which invoice creation would reject.
		lateNow := eventDay.AddDate(0, 0, 20).Add(9 * time.Hour)
		f := newFixtureAt(shared.FixedClock{Instant: lateNow})
		e := completedEvent(t, associationID, 300)

		absentee := newHousehold(t, associationID, "6D")
		absent, err := event.NewEventAttendance(associationID, e.ID, absentee.ID)
		require.NoError(t, err)

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)
		f.attendanceRepo.On("FindByEvent", ctx, associationID, e.ID).Return([]event.EventAttendance{*absent}, nil)
		f.attendanceRepo.On("Save", ctx, mock.AnythingOfType("*event.EventAttendance")).Return(nil)
		f.eventRepo.On("SaveWithLock", ctx, e).Return(nil)
		f.householdRepo.On("FindByIDForAssociation", ctx, associationID, absentee.ID).Return(&absentee, nil)

		var issued *finance.Invoice
		f.invoiceRepo.On("Save", ctx, mock.MatchedBy(func(inv *finance.Invoice) bool {
			issued = inv
			return true
		})).Return(nil)

		result, err := f.svc.Finalize(ctx, associationID, e.ID, "admin")
		require.NoError(t, err)
		assert.Equal(t, 1, result.InvoicesIssued)
		require.NotNil(t, issued)
		assert.True(t, issued.DueDate.Equal(shared.Midnight(lateNow)), "got %s", issued.DueDate)
	})

	t.Run("late entry penalty prorated and rounded to 25", func(t *testing.T) {
		f := newFixture()
		e := completedEvent(t, associationID, 300)

		home := newHousehold(t, associationID, "5C")
		late, err := event.NewEventAttendance(associationID, e.ID, home.ID)
		require.NoError(t, err)
		// 30 minutes late into a 120 minute event at price 300: 75.
		late.RecordEntry(eventDay.Add(8*time.Hour + 30*time.Minute))
		late.RecordExit(eventDay.Add(10 * time.Hour))

		f.eventRepo.On("FindByIDForAssociation", ctx, associationID, e.ID).Return(e, nil)
		f.attendanceRepo.On("FindByEvent", ctx, associationID, e.ID).Return([]event.EventAttendance{*late}, nil)
		f.attendanceRepo.On("Save", ctx, mock.AnythingOfType("*event.EventAttendance")).Return(nil)
		f.eventRepo.On("SaveWithLock", ctx, e).Return(nil)
		f.householdRepo.On("FindByIDForAssociation", ctx, associationID, home.ID).Return(&home, nil)

		var issued *finance.Invoice
		f.invoiceRepo.On("Save", ctx, mock.MatchedBy(func(inv *finance.Invoice) bool {
			issued = inv
			return true
		})).Return(nil)

		result, err := f.svc.Finalize(ctx, associationID, e.ID, "admin")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Penalized)
		require.NotNil(t, issued)
		assert.True(t, issued.Amount.Equal(decimal.NewFromInt(75)), "got %s", issued.Amount)
	})
}
