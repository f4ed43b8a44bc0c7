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

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAssociation finds an invoice by ID within an association
func (r *GormInvoiceRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
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

// FindByIDs finds invoices by a set of IDs within an association
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]finance.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var invoiceModels []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND id IN ?", associationID, ids).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindAllForAssociation finds all invoices for an association
func (r *GormInvoiceRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	query = applyPagination(query, filter.Filter, InvoiceSortFields, "issued_date")

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindByHousehold finds invoices for one household
func (r *GormInvoiceRepository) FindByHousehold(ctx context.Context, associationID, householdID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Where("association_id = ? AND household_id = ?", associationID, householdID),
		filter,
	)
	query = applyPagination(query, filter.Filter, InvoiceSortFields, "issued_date")

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindByGroup finds all invoices issued in one batch
func (r *GormInvoiceRepository) FindByGroup(ctx context.Context, associationID uuid.UUID, groupID string) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND group_id = ?", associationID, groupID).
		Order("issued_date DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindUnpaidByHousehold finds every open invoice of one household
func (r *GormInvoiceRepository) FindUnpaidByHousehold(ctx context.Context, associationID, householdID uuid.UUID) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND household_id = ? AND is_paid = ?", associationID, householdID, false).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// DistinctGroups lists the batch IDs present for an association
func (r *GormInvoiceRepository) DistinctGroups(ctx context.Context, associationID uuid.UUID) ([]string, error) {
	var groups []string
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("association_id = ?", associationID).
		Distinct("group_id").
		Order("group_id ASC").
		Pluck("group_id", &groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves an invoice with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&model).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(map[string]interface{}{
			"penalty":             model.Penalty,
			"is_paid":             model.IsPaid,
			"paid_at":             model.PaidAt,
			"payment_accepted_by": model.PaymentAcceptedBy,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The invoice has been modified by another transaction")
	}
	return nil
}

// Delete soft deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAssociation counts invoices for an association
func (r *GormInvoiceRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies invoice-specific filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter finance.InvoiceFilter) *gorm.DB {
	if filter.HouseholdID != nil {
		query = query.Where("household_id = ?", *filter.HouseholdID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("is_paid = ? AND due_date < CURRENT_DATE", false)
	}
	if filter.Search != "" {
		query = query.Where("reason ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []finance.Invoice {
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
