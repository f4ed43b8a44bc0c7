package finance

import (
	"context"
	"testing"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLedgerService(ledgerRepo *MockLedgerAccountRepository, invoiceRepo *MockInvoiceRepository, txRepo *MockFinancialTransactionRepository) *LedgerService {
	return NewLedgerService(ledgerRepo, invoiceRepo, txRepo, shared.FixedClock{Instant: testToday})
}

func TestLedgerService_CreateForAssociation(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	t.Run("opens account with zero balance", func(t *testing.T) {
		ledgerRepo := new(MockLedgerAccountRepository)
		svc := newLedgerService(ledgerRepo, new(MockInvoiceRepository), new(MockFinancialTransactionRepository))

		ledgerRepo.On("FindByAssociation", ctx, associationID).Return(nil, nil)
		ledgerRepo.On("Save", ctx, mock.AnythingOfType("*finance.LedgerAccount")).Return(nil)

		account, err := svc.CreateForAssociation(ctx, associationID)
		require.NoError(t, err)
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, associationID, account.AssociationID)
	})

	t.Run("second account for same association rejected", func(t *testing.T) {
		ledgerRepo := new(MockLedgerAccountRepository)
		svc := newLedgerService(ledgerRepo, new(MockInvoiceRepository), new(MockFinancialTransactionRepository))

		existing, err := finance.NewLedgerAccount(associationID)
		require.NoError(t, err)
		ledgerRepo.On("FindByAssociation", ctx, associationID).Return(existing, nil)

		_, err = svc.CreateForAssociation(ctx, associationID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestLedgerService_GetSummary(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	ledgerRepo := new(MockLedgerAccountRepository)
	invoiceRepo := new(MockInvoiceRepository)
	txRepo := new(MockFinancialTransactionRepository)
	svc := newLedgerService(ledgerRepo, invoiceRepo, txRepo)

	account, err := finance.NewLedgerAccount(associationID)
	require.NoError(t, err)
	require.NoError(t, account.Credit(decimal.NewFromInt(7500)))

	ledgerRepo.On("FindByAssociation", ctx, associationID).Return(account, nil)
	invoiceRepo.On("CountForAssociation", ctx, associationID, mock.MatchedBy(func(f finance.InvoiceFilter) bool {
		return f.IsPaid != nil && *f.IsPaid
	})).Return(int64(12), nil)
	invoiceRepo.On("CountForAssociation", ctx, associationID, mock.MatchedBy(func(f finance.InvoiceFilter) bool {
		return f.IsPaid != nil && !*f.IsPaid
	})).Return(int64(4), nil)
	txRepo.On("CountForAssociation", ctx, associationID, mock.Anything).Return(int64(20), nil)

	summary, err := svc.GetSummary(ctx, associationID)
	require.NoError(t, err)
	assert.Equal(t, "7500", summary.Balance.String())
	assert.Equal(t, "ETB", summary.Currency)
	assert.Equal(t, int64(12), summary.PaidInvoices)
	assert.Equal(t, int64(4), summary.UnpaidInvoices)
	assert.Equal(t, int64(20), summary.Transactions)
}

func TestLedgerService_GetBalance_MissingAccount(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	ledgerRepo := new(MockLedgerAccountRepository)
	svc := newLedgerService(ledgerRepo, new(MockInvoiceRepository), new(MockFinancialTransactionRepository))

	ledgerRepo.On("FindByAssociation", ctx, associationID).Return(nil, nil)

	_, err := svc.GetBalance(ctx, associationID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
