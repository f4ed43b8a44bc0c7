package community

import (
	"strings"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberRole is a household member's relation to the head of household.
type MemberRole string

const (
	MemberRoleHead        MemberRole = "head"
	MemberRoleSpouse      MemberRole = "spouse"
	MemberRoleChild       MemberRole = "child"
	MemberRoleRelative    MemberRole = "relative"
	MemberRoleHousekeeper MemberRole = "housekeeper"
	MemberRoleOther       MemberRole = "other"
)

// IsValid checks if the role is a valid MemberRole
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleHead, MemberRoleSpouse, MemberRoleChild,
		MemberRoleRelative, MemberRoleHousekeeper, MemberRoleOther:
		return true
	}
	return false
}

// HouseholdMember is one person living in a household. Members are never
// deleted when a household moves out; they are flagged as former members
// so occupancy history survives.
type HouseholdMember struct {
	shared.AssociationAggregateRoot
	HouseholdID   uuid.UUID
	Name          string
	Age           int
	Sex           string
	Role          MemberRole
	Occupation    string
	ContactNumber string
	CurrentMember bool
}

// NewHouseholdMember registers a person in a household.
func NewHouseholdMember(
	associationID uuid.UUID,
	householdID uuid.UUID,
	name string,
	age int,
	sex string,
	role MemberRole,
) (*HouseholdMember, error) {
	if householdID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOUSEHOLD", "Household ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if age < 0 {
		return nil, shared.NewDomainError("INVALID_AGE", "Member age cannot be negative")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Member role is not recognized")
	}

	return &HouseholdMember{
		AssociationAggregateRoot: shared.NewAssociationAggregateRoot(associationID),
		HouseholdID:              householdID,
		Name:                     name,
		Age:                      age,
		Sex:                      sex,
		Role:                     role,
		CurrentMember:            true,
	}, nil
}

// MarkFormer flags the member as no longer living in the household.
func (m *HouseholdMember) MarkFormer() {
	if !m.CurrentMember {
		return
	}
	m.CurrentMember = false
	m.Touch()
	m.IncrementVersion()
}
