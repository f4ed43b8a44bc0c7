package models

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot populates a domain BaseAggregateRoot from persistence model
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity.ID = m.ID
	a.BaseEntity.CreatedAt = m.CreatedAt
	a.BaseEntity.UpdatedAt = m.UpdatedAt
	a.Version = m.Version
}

// AssociationAggregateModel provides common persistence fields for
// association-scoped aggregate roots. CreatedBy holds the display name of
// the operator who created the record.
type AssociationAggregateModel struct {
	AggregateModel
	AssociationID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy     string    `gorm:"type:varchar(100)"`
}

// FromDomainAssociationAggregateRoot populates the model from the domain root
func (m *AssociationAggregateModel) FromDomainAssociationAggregateRoot(a shared.AssociationAggregateRoot) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.AssociationID = a.AssociationID
	m.CreatedBy = a.CreatedBy
}

// PopulateAssociationAggregateRoot populates a domain root from the model
func (m *AssociationAggregateModel) PopulateAssociationAggregateRoot(a *shared.AssociationAggregateRoot) {
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	a.AssociationID = m.AssociationID
	a.CreatedBy = m.CreatedBy
}
