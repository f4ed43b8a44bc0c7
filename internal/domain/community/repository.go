package community

import (
	"context"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// HouseholdFilter defines filtering options for household queries
type HouseholdFilter struct {
	shared.Filter
	BuildingNo *int  // Filter by building number
	IsRented   *bool // Filter by rental state
}

// MemberFilter defines filtering options for household member queries
type MemberFilter struct {
	shared.Filter
	CurrentOnly bool // Restrict to members currently living in the unit
}

// AssociationRepository defines the interface for association persistence
type AssociationRepository interface {
	// FindByID finds an association by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Association, error)

	// FindByPlace finds an association by its unique place name
	FindByPlace(ctx context.Context, place string) (*Association, error)

	// FindAll lists all associations
	FindAll(ctx context.Context, filter shared.Filter) ([]Association, error)

	// Save creates or updates an association
	Save(ctx context.Context, a *Association) error

	// Delete soft deletes an association
	Delete(ctx context.Context, id uuid.UUID) error
}

// HouseholdRepository defines the interface for household persistence
type HouseholdRepository interface {
	// FindByID finds a household by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Household, error)

	// FindByIDForAssociation finds a household by ID scoped to an association
	FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*Household, error)

	// FindAllForAssociation finds all households of an association with filtering
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter HouseholdFilter) ([]Household, error)

	// ExistsByUnit reports whether the (building, apartment) unit is taken
	ExistsByUnit(ctx context.Context, associationID uuid.UUID, buildingNo int, apartmentNumber string) (bool, error)

	// Save creates or updates a household
	Save(ctx context.Context, h *Household) error

	// Delete soft deletes a household
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAssociation counts households of an association
	CountForAssociation(ctx context.Context, associationID uuid.UUID) (int64, error)
}

// HouseholdMemberRepository defines the interface for member persistence
type HouseholdMemberRepository interface {
	// FindByID finds a member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*HouseholdMember, error)

	// FindByHousehold finds members of one household
	FindByHousehold(ctx context.Context, householdID uuid.UUID, filter MemberFilter) ([]HouseholdMember, error)

	// FindAllForAssociation finds members across an association, searchable
	// by name or contact number through the filter
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter MemberFilter) ([]HouseholdMember, error)

	// Save creates or updates a member
	Save(ctx context.Context, m *HouseholdMember) error

	// SaveAll persists a batch of members
	SaveAll(ctx context.Context, members []*HouseholdMember) error

	// Delete soft deletes a member
	Delete(ctx context.Context, id uuid.UUID) error
}
