package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTxTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.LedgerAccountModel{}, &models.FinancialTransactionModel{})
	require.NoError(t, err)

	return db
}

func TestGormTransactionManager_Commit(t *testing.T) {
	db := setupTxTestDB(t)
	manager := NewGormTransactionManager(db)
	ledgerRepo := NewGormLedgerAccountRepository(db)
	ctx := context.Background()
	associationID := uuid.New()

	err := manager.WithinTransaction(ctx, func(c context.Context) error {
		account, err := finance.NewLedgerAccount(associationID)
		if err != nil {
			return err
		}
		return ledgerRepo.Save(c, account)
	})
	require.NoError(t, err)

	account, err := ledgerRepo.FindByAssociation(ctx, associationID)
	require.NoError(t, err)
	assert.NotNil(t, account)
}

func TestGormTransactionManager_Rollback(t *testing.T) {
	db := setupTxTestDB(t)
	manager := NewGormTransactionManager(db)
	ledgerRepo := NewGormLedgerAccountRepository(db)
	ctx := context.Background()
	associationID := uuid.New()

	boom := errors.New("boom")
	err := manager.WithinTransaction(ctx, func(c context.Context) error {
		account, err := finance.NewLedgerAccount(associationID)
		if err != nil {
			return err
		}
		if err := ledgerRepo.Save(c, account); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	account, err := ledgerRepo.FindByAssociation(ctx, associationID)
	require.NoError(t, err)
	assert.Nil(t, account, "save must not survive the rollback")
}

func TestGormTransactionManager_NestedCallsJoin(t *testing.T) {
	db := setupTxTestDB(t)
	manager := NewGormTransactionManager(db)
	ledgerRepo := NewGormLedgerAccountRepository(db)
	txRepo := NewGormFinancialTransactionRepository(db)
	ctx := context.Background()
	associationID := uuid.New()

	account, err := finance.NewLedgerAccount(associationID)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = manager.WithinTransaction(ctx, func(c context.Context) error {
		if err := ledgerRepo.Save(c, account); err != nil {
			return err
		}
		// The inner call must not commit independently.
		return manager.WithinTransaction(c, func(inner context.Context) error {
			record, err := finance.NewFinancialTransaction(associationID,
				finance.TransactionTypeIncome, decimal.NewFromInt(100), "Donation",
				account.CreatedAt, "Treasurer")
			if err != nil {
				return err
			}
			if err := txRepo.Save(inner, record); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	found, err := ledgerRepo.FindByAssociation(ctx, associationID)
	require.NoError(t, err)
	assert.Nil(t, found)

	records, err := txRepo.FindAllForAssociation(ctx, associationID, finance.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
