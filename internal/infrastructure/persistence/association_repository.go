package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssociationRepository implements AssociationRepository using GORM
type GormAssociationRepository struct {
	db *gorm.DB
}

// NewGormAssociationRepository creates a new GormAssociationRepository
func NewGormAssociationRepository(db *gorm.DB) *GormAssociationRepository {
	return &GormAssociationRepository{db: db}
}

// FindByID finds an association by its ID
func (r *GormAssociationRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.Association, error) {
	var model models.AssociationModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlace finds an association by its unique place name
func (r *GormAssociationRepository) FindByPlace(ctx context.Context, place string) (*community.Association, error) {
	var model models.AssociationModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("place = ?", strings.TrimSpace(place)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all associations matching the filter
func (r *GormAssociationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]community.Association, error) {
	var associationModels []models.AssociationModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).Model(&models.AssociationModel{})
	if filter.Search != "" {
		query = query.Where("place ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPagination(query, filter, AssociationSortFields, "created_at")

	if err := query.Find(&associationModels).Error; err != nil {
		return nil, err
	}

	associations := make([]community.Association, len(associationModels))
	for i, model := range associationModels {
		associations[i] = *model.ToDomain()
	}
	return associations, nil
}

// Save creates or updates an association
func (r *GormAssociationRepository) Save(ctx context.Context, a *community.Association) error {
	var model models.AssociationModel
	model.FromDomain(a)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// Delete soft deletes an association
func (r *GormAssociationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.AssociationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAssociationRepository implements AssociationRepository
var _ community.AssociationRepository = (*GormAssociationRepository)(nil)
