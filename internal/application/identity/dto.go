package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains the credentials supplied at login
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// UserInfo is the user representation returned to authenticated clients
type UserInfo struct {
	ID            uuid.UUID `json:"id"`
	AssociationID uuid.UUID `json:"association_id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
}

// LoginResult contains the token pair and user info returned after login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh token to exchange
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	AccessToken string
	UserID      uuid.UUID
	AllDevices  bool
}

// GetCurrentUserInput identifies the authenticated user
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains the current user's profile
type CurrentUserResult struct {
	User UserInfo `json:"user"`
}

// ChangePasswordInput contains the old and new password
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}
