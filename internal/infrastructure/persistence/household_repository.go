package persistence

import (
	"context"
	"errors"

	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHouseholdRepository implements HouseholdRepository using GORM
type GormHouseholdRepository struct {
	db *gorm.DB
}

// NewGormHouseholdRepository creates a new GormHouseholdRepository
func NewGormHouseholdRepository(db *gorm.DB) *GormHouseholdRepository {
	return &GormHouseholdRepository{db: db}
}

// FindByID finds a household by its ID
func (r *GormHouseholdRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Household, error) {
	var model models.HouseholdModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAssociation finds a household by ID within an association
func (r *GormHouseholdRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*community.Household, error) {
	var model models.HouseholdModel
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

// FindAllForAssociation finds all households of an association
func (r *GormHouseholdRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter community.HouseholdFilter) ([]community.Household, error) {
	var householdModels []models.HouseholdModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.HouseholdModel{}).
		Where("association_id = ?", associationID)

	if filter.BuildingNo != nil {
		query = query.Where("building_no = ?", *filter.BuildingNo)
	}
	if filter.IsRented != nil {
		query = query.Where("is_rented = ?", *filter.IsRented)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("head_of_household ILIKE ? OR contact_number ILIKE ? OR apartment_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	query = applyPagination(query, filter.Filter, HouseholdSortFields, "created_at")

	if err := query.Find(&householdModels).Error; err != nil {
		return nil, err
	}

	households := make([]community.Household, len(householdModels))
	for i, model := range householdModels {
		households[i] = *model.ToDomain()
	}
	return households, nil
}

// ExistsByUnit reports whether the (building, apartment) unit is taken
func (r *GormHouseholdRepository) ExistsByUnit(ctx context.Context, associationID uuid.UUID, buildingNo int, apartmentNumber string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.HouseholdModel{}).
		Where("association_id = ? AND building_no = ? AND apartment_number = ?",
			associationID, buildingNo, apartmentNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a household
func (r *GormHouseholdRepository) Save(ctx context.Context, h *community.Household) error {
	var model models.HouseholdModel
	model.FromDomain(h)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// Delete soft deletes a household
func (r *GormHouseholdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.HouseholdModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForAssociation counts households of an association
func (r *GormHouseholdRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.HouseholdModel{}).
		Where("association_id = ?", associationID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormHouseholdRepository implements HouseholdRepository
var _ community.HouseholdRepository = (*GormHouseholdRepository)(nil)
