package community

import (
	"fmt"
	"strings"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// Household is one billed unit, identified within its association by the
// (building number, apartment number) pair.
type Household struct {
	shared.AssociationAggregateRoot
	ApartmentNumber string
	BuildingNo      int
	HeadOfHousehold string
	ContactNumber   string
	Email           string
	IsRented        bool
	IsEmptyDaytime  bool
}

// NewHousehold registers a household unit. Uniqueness of the unit within
// the association is enforced by the registry, not here.
func NewHousehold(
	associationID uuid.UUID,
	apartmentNumber string,
	buildingNo int,
	headOfHousehold string,
	contactNumber string,
) (*Household, error) {
	if associationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATION", "Association ID cannot be empty")
	}
	if strings.TrimSpace(apartmentNumber) == "" {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment number cannot be empty")
	}
	if buildingNo <= 0 {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building number must be positive")
	}
	if strings.TrimSpace(headOfHousehold) == "" {
		return nil, shared.NewDomainError("INVALID_HEAD", "Head of household cannot be empty")
	}

	return &Household{
		AssociationAggregateRoot: shared.NewAssociationAggregateRoot(associationID),
		ApartmentNumber:          apartmentNumber,
		BuildingNo:               buildingNo,
		HeadOfHousehold:          headOfHousehold,
		ContactNumber:            contactNumber,
	}, nil
}

// UnitKey identifies the household's physical unit within the association.
func (h *Household) UnitKey() string {
	return fmt.Sprintf("%d/%s", h.BuildingNo, h.ApartmentNumber)
}

// UpdateContact changes the reachable person and their details.
func (h *Household) UpdateContact(headOfHousehold, contactNumber, email string) error {
	if strings.TrimSpace(headOfHousehold) == "" {
		return shared.NewDomainError("INVALID_HEAD", "Head of household cannot be empty")
	}
	h.HeadOfHousehold = headOfHousehold
	h.ContactNumber = contactNumber
	h.Email = email
	h.Touch()
	h.IncrementVersion()
	return nil
}

// SetOccupancy records how the unit is occupied.
func (h *Household) SetOccupancy(isRented, isEmptyDaytime bool) {
	h.IsRented = isRented
	h.IsEmptyDaytime = isEmptyDaytime
	h.Touch()
}
