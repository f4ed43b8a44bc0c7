package identity

import (
	"context"

	"github.com/Robi000/CMS/internal/domain/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the committee and admin accounts of an association
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// RegisterUserInput contains the data for a new account
type RegisterUserInput struct {
	AssociationID uuid.UUID
	Username      string
	Password      string
	Role          identity.UserRole
	Email         string
	DisplayName   string
	CreatedBy     string
}

// Register creates a new user account within an association
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*identity.User, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, input.AssociationID, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(input.AssociationID, input.Username, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	user.SetCreatedBy(input.CreatedBy)

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	s.logger.Info("User registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("association_id", input.AssociationID.String()))

	return user, nil
}

// Get retrieves a single user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return user, nil
}

// List returns the users of an association
func (s *UserService) List(ctx context.Context, associationID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	return s.userRepo.FindAllForAssociation(ctx, associationID, filter)
}

// ChangeRole switches a user between the admin and committee roles
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role identity.UserRole) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := user.ChangeRole(role); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Deactivate disables an account without deleting its history
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))
	return s.userRepo.Save(ctx, user)
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// ResetPassword sets a new password without requiring the old one.
// Restricted to admins at the handler layer.
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return s.userRepo.Save(ctx, user)
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
