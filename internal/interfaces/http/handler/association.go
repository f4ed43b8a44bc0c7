package handler

import (
	"time"

	appcommunity "github.com/Robi000/CMS/internal/application/community"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssociationHandler handles association setup and lookup
type AssociationHandler struct {
	BaseHandler
	associationService *appcommunity.AssociationService
}

// NewAssociationHandler creates a new association handler
func NewAssociationHandler(associationService *appcommunity.AssociationService) *AssociationHandler {
	return &AssociationHandler{
		associationService: associationService,
	}
}

// CreateAssociationRequest is the payload for setting up an association
type CreateAssociationRequest struct {
	Place               string `json:"place" binding:"required,min=2,max=200"`
	BuildingNumberStart int    `json:"building_number_start" binding:"required,min=1"`
	BuildingNumberEnd   int    `json:"building_number_end" binding:"required,min=1"`
}

// AssociationResponse is the outward representation of an association
type AssociationResponse struct {
	ID                  uuid.UUID `json:"id"`
	Place               string    `json:"place"`
	BuildingNumberStart int       `json:"building_number_start"`
	BuildingNumberEnd   int       `json:"building_number_end"`
	CreatedAt           time.Time `json:"created_at"`
}

func toAssociationResponse(a *community.Association) AssociationResponse {
	return AssociationResponse{
		ID:                  a.ID,
		Place:               a.Place,
		BuildingNumberStart: a.BuildingNumberStart,
		BuildingNumberEnd:   a.BuildingNumberEnd,
		CreatedAt:           a.CreatedAt,
	}
}

// Create sets up a new association together with its ledger account.
// POST /api/v1/associations
func (h *AssociationHandler) Create(c *gin.Context) {
	var req CreateAssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	association, err := h.associationService.Create(c.Request.Context(), appcommunity.CreateAssociationRequest{
		Place:               req.Place,
		BuildingNumberStart: req.BuildingNumberStart,
		BuildingNumberEnd:   req.BuildingNumberEnd,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAssociationResponse(association))
}

// GetCurrent returns the caller's own association.
// GET /api/v1/association
func (h *AssociationHandler) GetCurrent(c *gin.Context) {
	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	association, err := h.associationService.Get(c.Request.Context(), associationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAssociationResponse(association))
}

// List returns registered associations.
// GET /api/v1/associations
func (h *AssociationHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associations, err := h.associationService.List(c.Request.Context(), listRequestToFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AssociationResponse, len(associations))
	for i := range associations {
		responses[i] = toAssociationResponse(&associations[i])
	}

	h.Success(c, responses)
}
