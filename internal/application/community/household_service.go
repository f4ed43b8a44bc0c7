package community

import (
	"context"
	"fmt"

	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// HouseholdService is the household registry: units, their members and the
// leave protocol that retires a household's current members when it moves
// out.
type HouseholdService struct {
	householdRepo community.HouseholdRepository
	memberRepo    community.HouseholdMemberRepository
	txManager     shared.TransactionManager
}

// NewHouseholdService creates a new HouseholdService
func NewHouseholdService(
	householdRepo community.HouseholdRepository,
	memberRepo community.HouseholdMemberRepository,
	txManager shared.TransactionManager,
) *HouseholdService {
	return &HouseholdService{
		householdRepo: householdRepo,
		memberRepo:    memberRepo,
		txManager:     txManager,
	}
}

// RegisterHouseholdRequest represents a request to register a unit
type RegisterHouseholdRequest struct {
	AssociationID   uuid.UUID
	ApartmentNumber string
	BuildingNo      int
	HeadOfHousehold string
	ContactNumber   string
	Email           string
	IsRented        bool
	IsEmptyDaytime  bool
}

// AddMemberRequest represents a request to register a person in a unit
type AddMemberRequest struct {
	AssociationID uuid.UUID
	HouseholdID   uuid.UUID
	Name          string
	Age           int
	Sex           string
	Role          community.MemberRole
	Occupation    string
	ContactNumber string
}

// LeaveResult reports the outcome of the leave protocol
type LeaveResult struct {
	HouseholdID    uuid.UUID `json:"household_id"`
	MembersRetired int       `json:"members_retired"`
}

// Register creates a household after checking that the physical unit is
// not already registered in the association.
func (s *HouseholdService) Register(ctx context.Context, req RegisterHouseholdRequest) (*community.Household, error) {
	exists, err := s.householdRepo.ExistsByUnit(ctx, req.AssociationID, req.BuildingNo, req.ApartmentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check unit: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"A household with the same building and apartment number already exists")
	}

	household, err := community.NewHousehold(
		req.AssociationID, req.ApartmentNumber, req.BuildingNo,
		req.HeadOfHousehold, req.ContactNumber)
	if err != nil {
		return nil, err
	}
	household.Email = req.Email
	household.SetOccupancy(req.IsRented, req.IsEmptyDaytime)

	if err := s.householdRepo.Save(ctx, household); err != nil {
		return nil, fmt.Errorf("failed to save household: %w", err)
	}

	return household, nil
}

// Get returns one household.
func (s *HouseholdService) Get(ctx context.Context, associationID, householdID uuid.UUID) (*community.Household, error) {
	household, err := s.householdRepo.FindByIDForAssociation(ctx, associationID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	if household == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Household not found")
	}
	return household, nil
}

// List returns households matching the filter.
func (s *HouseholdService) List(ctx context.Context, associationID uuid.UUID, filter community.HouseholdFilter) ([]community.Household, error) {
	households, err := s.householdRepo.FindAllForAssociation(ctx, associationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	return households, nil
}

// UpdateContact changes a household's reachable person.
func (s *HouseholdService) UpdateContact(ctx context.Context, associationID, householdID uuid.UUID, head, contact, email string) (*community.Household, error) {
	household, err := s.Get(ctx, associationID, householdID)
	if err != nil {
		return nil, err
	}
	if err := household.UpdateContact(head, contact, email); err != nil {
		return nil, err
	}
	if err := s.householdRepo.Save(ctx, household); err != nil {
		return nil, fmt.Errorf("failed to save household: %w", err)
	}
	return household, nil
}

// Delete removes a household from the registry.
func (s *HouseholdService) Delete(ctx context.Context, associationID, householdID uuid.UUID) error {
	household, err := s.Get(ctx, associationID, householdID)
	if err != nil {
		return err
	}
	if err := s.householdRepo.Delete(ctx, household.ID); err != nil {
		return fmt.Errorf("failed to delete household: %w", err)
	}
	return nil
}

// AddMember registers a person in a household.
func (s *HouseholdService) AddMember(ctx context.Context, req AddMemberRequest) (*community.HouseholdMember, error) {
	if _, err := s.Get(ctx, req.AssociationID, req.HouseholdID); err != nil {
		return nil, err
	}

	member, err := community.NewHouseholdMember(
		req.AssociationID, req.HouseholdID, req.Name, req.Age, req.Sex, req.Role)
	if err != nil {
		return nil, err
	}
	member.Occupation = req.Occupation
	member.ContactNumber = req.ContactNumber

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	return member, nil
}

// ListMembers returns a household's members, optionally only current ones.
func (s *HouseholdService) ListMembers(ctx context.Context, householdID uuid.UUID, currentOnly bool) ([]community.HouseholdMember, error) {
	members, err := s.memberRepo.FindByHousehold(ctx, householdID, community.MemberFilter{CurrentOnly: currentOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// SearchMembers searches members across the association by name or
// contact number.
func (s *HouseholdService) SearchMembers(ctx context.Context, associationID uuid.UUID, search string) ([]community.HouseholdMember, error) {
	filter := community.MemberFilter{}
	filter.Search = search
	members, err := s.memberRepo.FindAllForAssociation(ctx, associationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

// Leave runs the leave protocol: every current member of the household is
// flagged as former, atomically, while the household record itself stays
// for billing history.
func (s *HouseholdService) Leave(ctx context.Context, associationID, householdID uuid.UUID) (*LeaveResult, error) {
	if _, err := s.Get(ctx, associationID, householdID); err != nil {
		return nil, err
	}

	result := &LeaveResult{HouseholdID: householdID}

	err := s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		members, err := s.memberRepo.FindByHousehold(c, householdID, community.MemberFilter{CurrentOnly: true})
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}

		for i := range members {
			members[i].MarkFormer()
			if err := s.memberRepo.Save(c, &members[i]); err != nil {
				return fmt.Errorf("failed to save member: %w", err)
			}
			result.MembersRetired++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
