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

// GormHouseholdMemberRepository implements HouseholdMemberRepository using GORM
type GormHouseholdMemberRepository struct {
	db *gorm.DB
}

// NewGormHouseholdMemberRepository creates a new GormHouseholdMemberRepository
func NewGormHouseholdMemberRepository(db *gorm.DB) *GormHouseholdMemberRepository {
	return &GormHouseholdMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormHouseholdMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*community.HouseholdMember, error) {
	var model models.HouseholdMemberModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByHousehold finds members of one household
func (r *GormHouseholdMemberRepository) FindByHousehold(ctx context.Context, householdID uuid.UUID, filter community.MemberFilter) ([]community.HouseholdMember, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.HouseholdMemberModel{}).
		Where("household_id = ?", householdID)
	return r.findMembers(query, filter)
}

// FindAllForAssociation finds members across an association
func (r *GormHouseholdMemberRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter community.MemberFilter) ([]community.HouseholdMember, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.HouseholdMemberModel{}).
		Where("association_id = ?", associationID)
	return r.findMembers(query, filter)
}

func (r *GormHouseholdMemberRepository) findMembers(query *gorm.DB, filter community.MemberFilter) ([]community.HouseholdMember, error) {
	if filter.CurrentOnly {
		query = query.Where("current_member = ?", true)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_number ILIKE ?", searchPattern, searchPattern)
	}
	query = applyPagination(query, filter.Filter, MemberSortFields, "created_at")

	var memberModels []models.HouseholdMemberModel
	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]community.HouseholdMember, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormHouseholdMemberRepository) Save(ctx context.Context, member *community.HouseholdMember) error {
	var model models.HouseholdMemberModel
	model.FromDomain(member)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveAll persists a batch of members
func (r *GormHouseholdMemberRepository) SaveAll(ctx context.Context, members []*community.HouseholdMember) error {
	if len(members) == 0 {
		return nil
	}
	memberModels := make([]*models.HouseholdMemberModel, len(members))
	for i, member := range members {
		memberModels[i] = &models.HouseholdMemberModel{}
		memberModels[i].FromDomain(member)
	}
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(memberModels).Error
}

// Delete soft deletes a member
func (r *GormHouseholdMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&models.HouseholdMemberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormHouseholdMemberRepository implements HouseholdMemberRepository
var _ community.HouseholdMemberRepository = (*GormHouseholdMemberRepository)(nil)
