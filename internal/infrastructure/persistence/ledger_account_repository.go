package persistence

import (
	"context"
	"errors"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerAccountRepository implements LedgerAccountRepository using GORM
type GormLedgerAccountRepository struct {
	db *gorm.DB
}

// NewGormLedgerAccountRepository creates a new GormLedgerAccountRepository
func NewGormLedgerAccountRepository(db *gorm.DB) *GormLedgerAccountRepository {
	return &GormLedgerAccountRepository{db: db}
}

// FindByID finds a ledger account by its ID
func (r *GormLedgerAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAssociation finds the single ledger account of an association
func (r *GormLedgerAccountRepository) FindByAssociation(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ?", associationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAssociationForUpdate loads the ledger account with a row lock.
// Must run inside a transaction, otherwise the lock is released
// immediately.
func (r *GormLedgerAccountRepository) FindByAssociationForUpdate(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("association_id = ?", associationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a ledger account
func (r *GormLedgerAccountRepository) Save(ctx context.Context, account *finance.LedgerAccount) error {
	var model models.LedgerAccountModel
	model.FromDomain(account)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves a ledger account with optimistic locking (version check).
// Returns an error if the version has changed under a concurrent writer.
func (r *GormLedgerAccountRepository) SaveWithLock(ctx context.Context, account *finance.LedgerAccount) error {
	var model models.LedgerAccountModel
	model.FromDomain(account)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&model).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]interface{}{
			"balance":    model.Balance,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The ledger account has been modified by another transaction")
	}
	return nil
}

// Ensure GormLedgerAccountRepository implements LedgerAccountRepository
var _ finance.LedgerAccountRepository = (*GormLedgerAccountRepository)(nil)
