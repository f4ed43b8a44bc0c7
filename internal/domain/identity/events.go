package identity

import (
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// UserCreatedEvent is raised when a new operator account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     UserRole  `json:"role"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", user.ID, user.AssociationID),
		UserID:          user.ID,
		Username:        user.Username,
		Role:            user.Role,
	}
}
