package persistence

import (
	"context"
	"errors"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialTransactionRepository implements FinancialTransactionRepository using GORM
type GormFinancialTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinancialTransactionRepository creates a new GormFinancialTransactionRepository
func NewGormFinancialTransactionRepository(db *gorm.DB) *GormFinancialTransactionRepository {
	return &GormFinancialTransactionRepository{db: db}
}

// FindByID finds a financial transaction by its ID
func (r *GormFinancialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAssociation finds a transaction by ID within an association
func (r *GormFinancialTransactionRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND id = ?", associationID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForAssociation finds all transactions for an association
func (r *GormFinancialTransactionRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.TransactionFilter) ([]finance.FinancialTransaction, error) {
	var txModels []models.FinancialTransactionModel
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.FinancialTransactionModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	query = applyPagination(query, filter.Filter, TransactionSortFields, "date")

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]finance.FinancialTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Save creates or updates a financial transaction
func (r *GormFinancialTransactionRepository) Save(ctx context.Context, tx *finance.FinancialTransaction) error {
	var model models.FinancialTransactionModel
	model.FromDomain(tx)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves a transaction with optimistic locking (version check)
func (r *GormFinancialTransactionRepository) SaveWithLock(ctx context.Context, tx *finance.FinancialTransaction) error {
	var model models.FinancialTransactionModel
	model.FromDomain(tx)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&model).
		Where("id = ? AND version = ?", tx.ID, tx.Version-1).
		Updates(map[string]interface{}{
			"type":        model.Type,
			"amount":      model.Amount,
			"reason":      model.Reason,
			"date":        model.Date,
			"accessed_by": model.AccessedBy,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The transaction has been modified by another transaction")
	}
	return nil
}

// Delete soft deletes a financial transaction
func (r *GormFinancialTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.FinancialTransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAssociation counts transactions for an association
func (r *GormFinancialTransactionRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.FinancialTransactionModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies transaction-specific filter options to the query
func (r *GormFinancialTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reason ILIKE ? OR accessed_by ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormFinancialTransactionRepository implements FinancialTransactionRepository
var _ finance.FinancialTransactionRepository = (*GormFinancialTransactionRepository)(nil)
