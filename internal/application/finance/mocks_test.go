package finance

import (
	"context"

	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock repositories shared by the finance application service tests
// =============================================================================

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

type MockFinancialTransactionRepository struct {
	mock.Mock
}

func (m *MockFinancialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*finance.FinancialTransaction, error) {
	args := m.Called(ctx, associationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.TransactionFilter) ([]finance.FinancialTransaction, error) {
	args := m.Called(ctx, associationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) Save(ctx context.Context, tx *finance.FinancialTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinancialTransactionRepository) SaveWithLock(ctx context.Context, tx *finance.FinancialTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinancialTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFinancialTransactionRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.TransactionFilter) (int64, error) {
	args := m.Called(ctx, associationID, filter)
	return args.Get(0).(int64), args.Error(1)
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

// noopTxManager runs the function directly, without a database
type noopTxManager struct{}

func (noopTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
