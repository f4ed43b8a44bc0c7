package persistence

import (
	"context"
	"errors"

	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by its ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var model models.EventModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForAssociation finds an event by ID within an association
func (r *GormEventRepository) FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*event.Event, error) {
	var model models.EventModel
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

// FindAllForAssociation finds all events for an association
func (r *GormEventRepository) FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter event.EventFilter) ([]event.Event, error) {
	var eventModels []models.EventModel
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.EventModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	query = applyPagination(query, filter.Filter, EventSortFields, "date")

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]event.Event, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, e *event.Event) error {
	var model models.EventModel
	model.FromDomain(e)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves an event with optimistic locking (version check)
func (r *GormEventRepository) SaveWithLock(ctx context.Context, e *event.Event) error {
	var model models.EventModel
	model.FromDomain(e)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&model).
		Where("id = ? AND version = ?", e.ID, e.Version-1).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"description":   model.Description,
			"date":          model.Date,
			"penalty_price": model.PenaltyPrice,
			"start_time":    model.StartTime,
			"end_time":      model.EndTime,
			"finalized_at":  model.FinalizedAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The event has been modified by another transaction")
	}
	return nil
}

// Delete soft deletes an event and its attendance records
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	result := db.Delete(&models.EventModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Delete(&models.EventAttendanceModel{}, "event_id = ?", id).Error
}

// CountForAssociation counts events for an association
func (r *GormEventRepository) CountForAssociation(ctx context.Context, associationID uuid.UUID, filter event.EventFilter) (int64, error) {
	var count int64
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).
			Model(&models.EventModel{}).
			Where("association_id = ?", associationID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies event-specific filter options to the query
func (r *GormEventRepository) applyFilter(query *gorm.DB, filter event.EventFilter) *gorm.DB {
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.Finalized != nil {
		if *filter.Finalized {
			query = query.Where("finalized_at IS NOT NULL")
		} else {
			query = query.Where("finalized_at IS NULL")
		}
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// Ensure GormEventRepository implements EventRepository
var _ event.EventRepository = (*GormEventRepository)(nil)
