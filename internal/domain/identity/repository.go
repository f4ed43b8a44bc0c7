package identity

import (
	"context"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within an association
	FindByUsername(ctx context.Context, associationID uuid.UUID, username string) (*User, error)

	// FindByUsernameGlobal finds a user by username across associations,
	// used at login before the association context is known
	FindByUsernameGlobal(ctx context.Context, username string) (*User, error)

	// FindAllForAssociation finds all users of an association
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter shared.Filter) ([]User, error)

	// ExistsByUsername reports whether the username is taken in the association
	ExistsByUsername(ctx context.Context, associationID uuid.UUID, username string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete soft deletes a user
	Delete(ctx context.Context, id uuid.UUID) error
}
