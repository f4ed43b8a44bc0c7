package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InvoiceModel{}, &models.LedgerAccountModel{})
	require.NoError(t, err)

	return db
}

func newTestInvoice(t *testing.T, associationID, householdID uuid.UUID, groupID string, amount int64, due time.Time) *finance.Invoice {
	invoice, err := finance.NewInvoice(associationID, householdID, groupID,
		decimal.NewFromInt(amount), "Monthly contribution", due, due.AddDate(0, 0, -14))
	require.NoError(t, err)
	return invoice
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	associationID := uuid.New()
	householdID := uuid.New()
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	invoice := newTestInvoice(t, associationID, householdID, "AB12CD3", 1000, due)
	require.NoError(t, repo.Save(ctx, invoice))

	t.Run("round-trips the invoice", func(t *testing.T) {
		found, err := repo.FindByIDForAssociation(ctx, associationID, invoice.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "AB12CD3", found.GroupID)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(1000)))
		assert.False(t, found.IsPaid)
		assert.True(t, found.DueDate.Equal(due))
	})

	t.Run("missing invoice returns nil without error", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormInvoiceRepository_GroupQueries(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	associationID := uuid.New()
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	households := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, h := range households {
		require.NoError(t, repo.Save(ctx, newTestInvoice(t, associationID, h, "GROUP01", 500, due)))
	}
	require.NoError(t, repo.Save(ctx, newTestInvoice(t, associationID, households[0], "GROUP02", 300, due)))

	t.Run("finds an issuing batch", func(t *testing.T) {
		invoices, err := repo.FindByGroup(ctx, associationID, "GROUP01")
		require.NoError(t, err)
		assert.Len(t, invoices, 3)
	})

	t.Run("lists distinct batches", func(t *testing.T) {
		groups, err := repo.DistinctGroups(ctx, associationID)
		require.NoError(t, err)
		assert.Equal(t, []string{"GROUP01", "GROUP02"}, groups)
	})

	t.Run("unpaid invoices of one household", func(t *testing.T) {
		invoices, err := repo.FindUnpaidByHousehold(ctx, associationID, households[0])
		require.NoError(t, err)
		assert.Len(t, invoices, 2)
	})
}

func TestGormInvoiceRepository_Filters(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	associationID := uuid.New()
	householdID := uuid.New()
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	open := newTestInvoice(t, associationID, householdID, "GROUP01", 500, due)
	require.NoError(t, repo.Save(ctx, open))

	settled := newTestInvoice(t, associationID, householdID, "GROUP01", 800, due)
	require.NoError(t, settled.MarkPaid(due, "Treasurer"))
	require.NoError(t, repo.Save(ctx, settled))

	t.Run("filters by settlement state", func(t *testing.T) {
		paid := true
		invoices, err := repo.FindAllForAssociation(ctx, associationID, finance.InvoiceFilter{IsPaid: &paid})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.True(t, invoices[0].Amount.Equal(decimal.NewFromInt(800)))
	})

	t.Run("filters by due date range", func(t *testing.T) {
		from := due.AddDate(0, 0, -1)
		to := due.AddDate(0, 0, 1)
		invoices, err := repo.FindAllForAssociation(ctx, associationID, finance.InvoiceFilter{DueFrom: &from, DueTo: &to})
		require.NoError(t, err)
		assert.Len(t, invoices, 2)
	})

	t.Run("counts with the same filters", func(t *testing.T) {
		paid := false
		count, err := repo.CountForAssociation(ctx, associationID, finance.InvoiceFilter{IsPaid: &paid})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	associationID := uuid.New()
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	invoice := newTestInvoice(t, associationID, uuid.New(), "GROUP01", 500, due)
	require.NoError(t, repo.Save(ctx, invoice))

	t.Run("saves when the version matches", func(t *testing.T) {
		require.NoError(t, invoice.MarkPaid(due, "Treasurer"))
		require.NoError(t, repo.SaveWithLock(ctx, invoice))

		found, err := repo.FindByID(ctx, invoice.ID)
		require.NoError(t, err)
		assert.True(t, found.IsPaid)
		assert.Equal(t, invoice.Version, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale := *invoice
		stale.Version = invoice.Version - 1

		err := repo.SaveWithLock(ctx, &stale)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

func TestGormLedgerAccountRepository(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormLedgerAccountRepository(db)
	ctx := context.Background()
	associationID := uuid.New()

	account, err := finance.NewLedgerAccount(associationID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, account))

	t.Run("one account per association", func(t *testing.T) {
		found, err := repo.FindByAssociation(ctx, associationID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.Balance.IsZero())
	})

	t.Run("credit survives a round trip", func(t *testing.T) {
		require.NoError(t, account.Credit(decimal.NewFromInt(2500)))
		require.NoError(t, repo.SaveWithLock(ctx, account))

		found, err := repo.FindByAssociation(ctx, associationID)
		require.NoError(t, err)
		assert.True(t, found.Balance.Equal(decimal.NewFromInt(2500)))
	})

	t.Run("stale writer is rejected", func(t *testing.T) {
		stale := *account
		stale.Version = account.Version - 1

		err := repo.SaveWithLock(ctx, &stale)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}
