package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Robi000/CMS/internal/domain/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username within an association
func (r *GormUserRepository) FindByUsername(ctx context.Context, associationID uuid.UUID, username string) (*identity.User, error) {
	var model models.UserModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND username = ?", associationID, strings.ToLower(username)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsernameGlobal finds a user by username across associations
func (r *GormUserRepository) FindByUsernameGlobal(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("username = ?", strings.ToLower(username)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForAssociation finds all users of an association
func (r *GormUserRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.UserModel{}).
		Where("association_id = ?", associationID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR display_name ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	query = applyPagination(query, filter, UserSortFields, "created_at")

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = *model.ToDomain()
	}
	return users, nil
}

// ExistsByUsername reports whether the username is taken in the association
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, associationID uuid.UUID, username string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.UserModel{}).
		Where("association_id = ? AND username = ?", associationID, strings.ToLower(username)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// Delete soft deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
