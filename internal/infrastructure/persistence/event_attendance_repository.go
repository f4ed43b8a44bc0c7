package persistence

import (
	"context"
	"errors"

	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/Robi000/CMS/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventAttendanceRepository implements EventAttendanceRepository using GORM
type GormEventAttendanceRepository struct {
	db *gorm.DB
}

// NewGormEventAttendanceRepository creates a new GormEventAttendanceRepository
func NewGormEventAttendanceRepository(db *gorm.DB) *GormEventAttendanceRepository {
	return &GormEventAttendanceRepository{db: db}
}

// FindByID finds an attendance record by its ID
func (r *GormEventAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.EventAttendance, error) {
	var model models.EventAttendanceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds attendance records by a set of IDs within an association
func (r *GormEventAttendanceRepository) FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]event.EventAttendance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var attendanceModels []models.EventAttendanceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND id IN ?", associationID, ids).
		Find(&attendanceModels).Error; err != nil {
		return nil, err
	}
	return toDomainAttendances(attendanceModels), nil
}

// FindByEvent finds every attendance record of one event
func (r *GormEventAttendanceRepository) FindByEvent(ctx context.Context, associationID, eventID uuid.UUID) ([]event.EventAttendance, error) {
	var attendanceModels []models.EventAttendanceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND event_id = ?", associationID, eventID).
		Order("created_at ASC").
		Find(&attendanceModels).Error; err != nil {
		return nil, err
	}
	return toDomainAttendances(attendanceModels), nil
}

// FindByEventAndAttended finds an event's records partitioned by attendance
func (r *GormEventAttendanceRepository) FindByEventAndAttended(ctx context.Context, associationID, eventID uuid.UUID, attended bool) ([]event.EventAttendance, error) {
	var attendanceModels []models.EventAttendanceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("association_id = ? AND event_id = ? AND attended = ?", associationID, eventID, attended).
		Order("created_at ASC").
		Find(&attendanceModels).Error; err != nil {
		return nil, err
	}
	return toDomainAttendances(attendanceModels), nil
}

// Save creates or updates an attendance record
func (r *GormEventAttendanceRepository) Save(ctx context.Context, a *event.EventAttendance) error {
	var model models.EventAttendanceModel
	model.FromDomain(a)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}

// SaveAll persists a batch of attendance records
func (r *GormEventAttendanceRepository) SaveAll(ctx context.Context, records []*event.EventAttendance) error {
	if len(records) == 0 {
		return nil
	}
	attendanceModels := make([]*models.EventAttendanceModel, len(records))
	for i, record := range records {
		attendanceModels[i] = &models.EventAttendanceModel{}
		attendanceModels[i].FromDomain(record)
	}
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(attendanceModels).Error
}

// DeleteByEvent removes all attendance records of one event
func (r *GormEventAttendanceRepository) DeleteByEvent(ctx context.Context, eventID uuid.UUID) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).
		Delete(&models.EventAttendanceModel{}, "event_id = ?", eventID).Error
}

func toDomainAttendances(attendanceModels []models.EventAttendanceModel) []event.EventAttendance {
	records := make([]event.EventAttendance, len(attendanceModels))
	for i, model := range attendanceModels {
		records[i] = *model.ToDomain()
	}
	return records
}

// Ensure GormEventAttendanceRepository implements EventAttendanceRepository
var _ event.EventAttendanceRepository = (*GormEventAttendanceRepository)(nil)
