package models

import (
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/google/uuid"
)

// AssociationModel is the GORM model for associations
type AssociationModel struct {
	AggregateModel
	Place               string `gorm:"type:varchar(200);not null;uniqueIndex"`
	BuildingNumberStart int    `gorm:"not null"`
	BuildingNumberEnd   int    `gorm:"not null"`
}

// TableName returns the table name for AssociationModel
func (AssociationModel) TableName() string {
	return "associations"
}

// ToDomain converts AssociationModel to domain Association
func (m *AssociationModel) ToDomain() *community.Association {
	a := &community.Association{
		Place:               m.Place,
		BuildingNumberStart: m.BuildingNumberStart,
		BuildingNumberEnd:   m.BuildingNumberEnd,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain converts domain Association to AssociationModel
func (m *AssociationModel) FromDomain(a *community.Association) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Place = a.Place
	m.BuildingNumberStart = a.BuildingNumberStart
	m.BuildingNumberEnd = a.BuildingNumberEnd
}

// HouseholdModel is the GORM model for households. The physical unit
// (building, apartment) is unique per association.
type HouseholdModel struct {
	AssociationAggregateModel
	ApartmentNumber string `gorm:"type:varchar(20);not null;index:idx_households_unit"`
	BuildingNo      int    `gorm:"not null;index:idx_households_unit"`
	HeadOfHousehold string `gorm:"type:varchar(200);not null"`
	ContactNumber   string `gorm:"type:varchar(50);not null"`
	Email           string `gorm:"type:varchar(254)"`
	IsRented        bool   `gorm:"not null;default:false"`
	IsEmptyDaytime  bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for HouseholdModel
func (HouseholdModel) TableName() string {
	return "households"
}

// ToDomain converts HouseholdModel to domain Household
func (m *HouseholdModel) ToDomain() *community.Household {
	h := &community.Household{
		ApartmentNumber: m.ApartmentNumber,
		BuildingNo:      m.BuildingNo,
		HeadOfHousehold: m.HeadOfHousehold,
		ContactNumber:   m.ContactNumber,
		Email:           m.Email,
		IsRented:        m.IsRented,
		IsEmptyDaytime:  m.IsEmptyDaytime,
	}
	m.PopulateAssociationAggregateRoot(&h.AssociationAggregateRoot)
	return h
}

// FromDomain converts domain Household to HouseholdModel
func (m *HouseholdModel) FromDomain(h *community.Household) {
	m.FromDomainAssociationAggregateRoot(h.AssociationAggregateRoot)
	m.ApartmentNumber = h.ApartmentNumber
	m.BuildingNo = h.BuildingNo
	m.HeadOfHousehold = h.HeadOfHousehold
	m.ContactNumber = h.ContactNumber
	m.Email = h.Email
	m.IsRented = h.IsRented
	m.IsEmptyDaytime = h.IsEmptyDaytime
}

// HouseholdMemberModel is the GORM model for household members
type HouseholdMemberModel struct {
	AssociationAggregateModel
	HouseholdID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(200);not null"`
	Age           int       `gorm:"not null"`
	Sex           string    `gorm:"type:varchar(10);not null"`
	Role          string    `gorm:"type:varchar(20);not null"`
	Occupation    string    `gorm:"type:varchar(100)"`
	ContactNumber string    `gorm:"type:varchar(50)"`
	CurrentMember bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for HouseholdMemberModel
func (HouseholdMemberModel) TableName() string {
	return "household_members"
}

// ToDomain converts HouseholdMemberModel to domain HouseholdMember
func (m *HouseholdMemberModel) ToDomain() *community.HouseholdMember {
	member := &community.HouseholdMember{
		HouseholdID:   m.HouseholdID,
		Name:          m.Name,
		Age:           m.Age,
		Sex:           m.Sex,
		Role:          community.MemberRole(m.Role),
		Occupation:    m.Occupation,
		ContactNumber: m.ContactNumber,
		CurrentMember: m.CurrentMember,
	}
	m.PopulateAssociationAggregateRoot(&member.AssociationAggregateRoot)
	return member
}

// FromDomain converts domain HouseholdMember to HouseholdMemberModel
func (m *HouseholdMemberModel) FromDomain(member *community.HouseholdMember) {
	m.FromDomainAssociationAggregateRoot(member.AssociationAggregateRoot)
	m.HouseholdID = member.HouseholdID
	m.Name = member.Name
	m.Age = member.Age
	m.Sex = member.Sex
	m.Role = string(member.Role)
	m.Occupation = member.Occupation
	m.ContactNumber = member.ContactNumber
	m.CurrentMember = member.CurrentMember
}
