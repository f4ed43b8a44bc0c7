package models

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/identity"
)

// UserModel is the GORM model for committee users
type UserModel struct {
	AssociationAggregateModel
	Username       string `gorm:"type:varchar(50);not null;index"`
	Email          string `gorm:"type:varchar(254)"`
	Phone          string `gorm:"type:varchar(50)"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	DisplayName    string `gorm:"type:varchar(100)"`
	Role           string `gorm:"type:varchar(20);not null"`
	Status         string `gorm:"type:varchar(20);not null;index"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Username:       m.Username,
		Email:          m.Email,
		Phone:          m.Phone,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Role:           identity.UserRole(m.Role),
		Status:         identity.UserStatus(m.Status),
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateAssociationAggregateRoot(&user.AssociationAggregateRoot)
	return user
}

// FromDomain converts domain User to UserModel
func (m *UserModel) FromDomain(user *identity.User) {
	m.FromDomainAssociationAggregateRoot(user.AssociationAggregateRoot)
	m.Username = user.Username
	m.Email = user.Email
	m.Phone = user.Phone
	m.PasswordHash = user.PasswordHash
	m.DisplayName = user.DisplayName
	m.Role = string(user.Role)
	m.Status = string(user.Status)
	m.LastLoginAt = user.LastLoginAt
	m.LastLoginIP = user.LastLoginIP
	m.FailedAttempts = user.FailedAttempts
	m.LockedUntil = user.LockedUntil
}
