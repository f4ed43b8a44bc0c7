package handler

import (
	"time"

	appidentity "github.com/Robi000/CMS/internal/application/identity"
	"github.com/Robi000/CMS/internal/domain/identity"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles operator account management. Every route here is
// admin-only, enforced by the router.
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUserRequest is the payload for creating an operator account
type RegisterUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Role        string `json:"role" binding:"required,oneof=admin committee"`
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

// ChangeRoleRequest changes a user's authority level
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin committee"`
}

// ResetPasswordRequest sets a new password for another user
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserResponse is the outward representation of an operator account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// Register creates an operator account in the caller's association.
// POST /api/v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), appidentity.RegisterUserInput{
		AssociationID: associationID,
		Username:      req.Username,
		Password:      req.Password,
		Role:          identity.UserRole(req.Role),
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		CreatedBy:     getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserResponse(user))
}

// List returns the association's operator accounts.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := listRequestToFilter(req)
	users, err := h.userService.List(c.Request.Context(), associationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = toUserResponse(&users[i])
	}

	h.Success(c, responses)
}

// Get returns one operator account.
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// A user record belongs to exactly one association, and lookups from
	// another association must not reveal its existence.
	associationID, err := getAssociationID(c)
	if err != nil || user.AssociationID != associationID {
		h.NotFound(c, "User not found")
		return
	}

	h.Success(c, toUserResponse(user))
}

// ChangeRole switches a user between admin and committee.
// PUT /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.userService.ChangeRole(c.Request.Context(), uuid.MustParse(uri.ID), identity.UserRole(req.Role)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Role updated"})
}

// Deactivate disables an account without deleting it.
// POST /api/v1/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	userID := uuid.MustParse(uri.ID)
	if callerID, err := getUserID(c); err == nil && callerID == userID {
		h.HandleError(c, shared.NewDomainError("INVALID_STATE", "You cannot deactivate your own account"))
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User deactivated"})
}

// Activate re-enables a deactivated account.
// POST /api/v1/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Activate(c.Request.Context(), uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User activated"})
}

// ResetPassword sets a new password for a user and revokes their sessions.
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), uuid.MustParse(uri.ID), req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset"})
}

// Delete removes an operator account.
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	userID := uuid.MustParse(uri.ID)
	if callerID, err := getUserID(c); err == nil && callerID == userID {
		h.HandleError(c, shared.NewDomainError("INVALID_STATE", "You cannot delete your own account"))
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
