package shared

import (
	"github.com/google/uuid"
)

// BaseAggregateRoot adds optimistic locking and domain event collection on
// top of BaseEntity. Events accumulate until the application layer drains
// them after a successful commit.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot returns an aggregate root at version 1 with no
// pending events.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion reports the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the optimistic lock version.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent queues an event for publication after the aggregate is
// persisted.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events without draining them.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events, typically after publish.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AssociationAggregateRoot scopes an aggregate to one residential
// association. Every record except the association itself and its ledger
// account carries this scope.
type AssociationAggregateRoot struct {
	BaseAggregateRoot
	AssociationID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy     string    `gorm:"type:varchar(100)"` // display name of the operator who created the record
}

// NewAssociationAggregateRoot returns a fresh aggregate root scoped to the
// given association.
func NewAssociationAggregateRoot(associationID uuid.UUID) AssociationAggregateRoot {
	return AssociationAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		AssociationID:     associationID,
	}
}

// NewAssociationAggregateRootWithCreator also records who created the
// aggregate.
func NewAssociationAggregateRootWithCreator(associationID uuid.UUID, createdBy string) AssociationAggregateRoot {
	root := NewAssociationAggregateRoot(associationID)
	root.CreatedBy = createdBy
	return root
}

// SetCreatedBy records the creating operator's display name.
func (a *AssociationAggregateRoot) SetCreatedBy(name string) {
	a.CreatedBy = name
}
