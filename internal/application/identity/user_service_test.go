package identity

import (
	"context"
	"testing"

	"github.com/Robi000/CMS/internal/domain/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	associationID := uuid.New()

	t.Run("creates user with profile fields", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())

		repo.On("ExistsByUsername", ctx, associationID, "secretary").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		user, err := svc.Register(ctx, RegisterUserInput{
			AssociationID: associationID,
			Username:      "secretary",
			Password:      "Sup3rSecret!",
			Role:          identity.UserRoleCommittee,
			Email:         "Secretary@Example.com",
			DisplayName:   "Block Secretary",
			CreatedBy:     "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, associationID, user.AssociationID)
		assert.Equal(t, "secretary@example.com", user.Email)
		assert.Equal(t, "Block Secretary", user.DisplayName)
		assert.Equal(t, "admin", user.CreatedBy)
		assert.True(t, user.VerifyPassword("Sup3rSecret!"))
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())

		repo.On("ExistsByUsername", ctx, associationID, "secretary").Return(true, nil)

		_, err := svc.Register(ctx, RegisterUserInput{
			AssociationID: associationID,
			Username:      "secretary",
			Password:      "Sup3rSecret!",
			Role:          identity.UserRoleCommittee,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())

		repo.On("ExistsByUsername", ctx, associationID, "secretary").Return(false, nil)

		_, err := svc.Register(ctx, RegisterUserInput{
			AssociationID: associationID,
			Username:      "secretary",
			Password:      "Sup3rSecret!",
			Role:          identity.UserRole("owner"),
		})
		require.Error(t, err)
	})
}

func TestUserService_LifecycleOperations(t *testing.T) {
	ctx := context.Background()

	newSavedUser := func(t *testing.T, repo *MockUserRepository) *identity.User {
		user, err := identity.NewUser(uuid.New(), "treasurer", "Sup3rSecret!", identity.UserRoleCommittee)
		require.NoError(t, err)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		return user
	}

	t.Run("change role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := newSavedUser(t, repo)

		require.NoError(t, svc.ChangeRole(ctx, user.ID, identity.UserRoleAdmin))
		assert.True(t, user.IsAdmin())
	})

	t.Run("deactivate then activate", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := newSavedUser(t, repo)

		require.NoError(t, svc.Deactivate(ctx, user.ID))
		assert.False(t, user.CanLogin())

		require.NoError(t, svc.Activate(ctx, user.ID))
		assert.True(t, user.CanLogin())
	})

	t.Run("reset password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := newSavedUser(t, repo)

		require.NoError(t, svc.ResetPassword(ctx, user.ID, "N3wSecret!!"))
		assert.True(t, user.VerifyPassword("N3wSecret!!"))
		assert.False(t, user.VerifyPassword("Sup3rSecret!"))
	})

	t.Run("missing user yields not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := svc.Get(ctx, id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}
