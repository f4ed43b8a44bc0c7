package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		user, err := NewUser(uuid.New(), "Admin.One", "s3curePass", UserRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "admin.one", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "s3curePass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3curePass"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "committee1", "short1", UserRoleCommittee)
		assert.Error(t, err)

		_, err = NewUser(uuid.New(), "committee1", "onlyletters", UserRoleCommittee)
		assert.Error(t, err)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "committee1", "s3curePass", UserRole("owner"))
		assert.Error(t, err)
	})
}

func TestUserPasswordChange(t *testing.T) {
	user, err := NewUser(uuid.New(), "committee1", "oldPass12", UserRoleCommittee)
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		assert.Error(t, user.ChangePassword("wrongPass1", "newPass34"))
		require.NoError(t, user.ChangePassword("oldPass12", "newPass34"))
		assert.True(t, user.VerifyPassword("newPass34"))
	})
}

func TestUserLockout(t *testing.T) {
	user, err := NewUser(uuid.New(), "committee1", "s3curePass", UserRoleCommittee)
	require.NoError(t, err)

	t.Run("locks after repeated failures", func(t *testing.T) {
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("activation clears the lock", func(t *testing.T) {
		require.NoError(t, user.Activate())
		assert.True(t, user.CanLogin())
		assert.Equal(t, 0, user.FailedAttempts)
	})

	t.Run("deactivated users cannot login", func(t *testing.T) {
		require.NoError(t, user.Deactivate())
		assert.False(t, user.CanLogin())
	})
}
