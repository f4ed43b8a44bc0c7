package handler

import (
	"strconv"
	"time"

	appcommunity "github.com/Robi000/CMS/internal/application/community"
	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HouseholdHandler handles the household registry and its member roll
type HouseholdHandler struct {
	BaseHandler
	householdService *appcommunity.HouseholdService
}

// NewHouseholdHandler creates a new household handler
func NewHouseholdHandler(householdService *appcommunity.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{
		householdService: householdService,
	}
}

// RegisterHouseholdRequest is the payload for registering a unit
type RegisterHouseholdRequest struct {
	ApartmentNumber string `json:"apartment_number" binding:"required,max=20"`
	BuildingNo      int    `json:"building_no" binding:"required,min=1"`
	HeadOfHousehold string `json:"head_of_household" binding:"required,max=100"`
	ContactNumber   string `json:"contact_number" binding:"omitempty,max=30"`
	Email           string `json:"email" binding:"omitempty,email"`
	IsRented        bool   `json:"is_rented"`
	IsEmptyDaytime  bool   `json:"is_empty_daytime"`
}

// UpdateContactRequest updates the household's contact details
type UpdateContactRequest struct {
	HeadOfHousehold string `json:"head_of_household" binding:"required,max=100"`
	ContactNumber   string `json:"contact_number" binding:"omitempty,max=30"`
	Email           string `json:"email" binding:"omitempty,email"`
}

// AddMemberRequest registers a person living in the unit
type AddMemberRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Age           int    `json:"age" binding:"min=0,max=130"`
	Sex           string `json:"sex" binding:"required,oneof=male female"`
	Role          string `json:"role" binding:"required,oneof=head spouse child relative housekeeper other"`
	Occupation    string `json:"occupation" binding:"omitempty,max=100"`
	ContactNumber string `json:"contact_number" binding:"omitempty,max=30"`
}

// HouseholdResponse is the outward representation of a household
type HouseholdResponse struct {
	ID              uuid.UUID `json:"id"`
	UnitKey         string    `json:"unit_key"`
	ApartmentNumber string    `json:"apartment_number"`
	BuildingNo      int       `json:"building_no"`
	HeadOfHousehold string    `json:"head_of_household"`
	ContactNumber   string    `json:"contact_number"`
	Email           string    `json:"email"`
	IsRented        bool      `json:"is_rented"`
	IsEmptyDaytime  bool      `json:"is_empty_daytime"`
	CreatedAt       time.Time `json:"created_at"`
}

func toHouseholdResponse(hh *community.Household) HouseholdResponse {
	return HouseholdResponse{
		ID:              hh.ID,
		UnitKey:         hh.UnitKey(),
		ApartmentNumber: hh.ApartmentNumber,
		BuildingNo:      hh.BuildingNo,
		HeadOfHousehold: hh.HeadOfHousehold,
		ContactNumber:   hh.ContactNumber,
		Email:           hh.Email,
		IsRented:        hh.IsRented,
		IsEmptyDaytime:  hh.IsEmptyDaytime,
		CreatedAt:       hh.CreatedAt,
	}
}

// MemberResponse is the outward representation of a household member
type MemberResponse struct {
	ID            uuid.UUID `json:"id"`
	HouseholdID   uuid.UUID `json:"household_id"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Sex           string    `json:"sex"`
	Role          string    `json:"role"`
	Occupation    string    `json:"occupation"`
	ContactNumber string    `json:"contact_number"`
	CurrentMember bool      `json:"current_member"`
}

func toMemberResponse(m *community.HouseholdMember) MemberResponse {
	return MemberResponse{
		ID:            m.ID,
		HouseholdID:   m.HouseholdID,
		Name:          m.Name,
		Age:           m.Age,
		Sex:           m.Sex,
		Role:          string(m.Role),
		Occupation:    m.Occupation,
		ContactNumber: m.ContactNumber,
		CurrentMember: m.CurrentMember,
	}
}

// Register registers a household in the caller's association.
// POST /api/v1/households
func (h *HouseholdHandler) Register(c *gin.Context) {
	var req RegisterHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	household, err := h.householdService.Register(c.Request.Context(), appcommunity.RegisterHouseholdRequest{
		AssociationID:   associationID,
		ApartmentNumber: req.ApartmentNumber,
		BuildingNo:      req.BuildingNo,
		HeadOfHousehold: req.HeadOfHousehold,
		ContactNumber:   req.ContactNumber,
		Email:           req.Email,
		IsRented:        req.IsRented,
		IsEmptyDaytime:  req.IsEmptyDaytime,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toHouseholdResponse(household))
}

// List returns the association's households. Supports building_no and
// is_rented filters on top of the common list parameters.
// GET /api/v1/households
func (h *HouseholdHandler) List(c *gin.Context) {
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

	filter := community.HouseholdFilter{Filter: listRequestToFilter(req)}
	if v := c.Query("building_no"); v != "" {
		buildingNo, err := strconv.Atoi(v)
		if err != nil {
			h.BadRequest(c, "building_no must be a number")
			return
		}
		filter.BuildingNo = &buildingNo
	}
	if v := c.Query("is_rented"); v != "" {
		isRented, err := strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "is_rented must be true or false")
			return
		}
		filter.IsRented = &isRented
	}

	households, err := h.householdService.List(c.Request.Context(), associationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]HouseholdResponse, len(households))
	for i := range households {
		responses[i] = toHouseholdResponse(&households[i])
	}

	h.Success(c, responses)
}

// Get returns one household.
// GET /api/v1/households/:id
func (h *HouseholdHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	household, err := h.householdService.Get(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toHouseholdResponse(household))
}

// UpdateContact updates the head of household and contact details.
// PUT /api/v1/households/:id/contact
func (h *HouseholdHandler) UpdateContact(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	household, err := h.householdService.UpdateContact(c.Request.Context(), associationID, uuid.MustParse(uri.ID),
		req.HeadOfHousehold, req.ContactNumber, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toHouseholdResponse(household))
}

// Delete removes a household from the registry.
// DELETE /api/v1/households/:id
func (h *HouseholdHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.householdService.Delete(c.Request.Context(), associationID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddMember registers a person in the household.
// POST /api/v1/households/:id/members
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	member, err := h.householdService.AddMember(c.Request.Context(), appcommunity.AddMemberRequest{
		AssociationID: associationID,
		HouseholdID:   uuid.MustParse(uri.ID),
		Name:          req.Name,
		Age:           req.Age,
		Sex:           req.Sex,
		Role:          community.MemberRole(req.Role),
		Occupation:    req.Occupation,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toMemberResponse(member))
}

// ListMembers returns the household's roll. Former members are included
// when include_former is set.
// GET /api/v1/households/:id/members
func (h *HouseholdHandler) ListMembers(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	// Scope check before listing the roll
	if _, err := h.householdService.Get(c.Request.Context(), associationID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	includeFormer, _ := strconv.ParseBool(c.Query("include_former"))
	members, err := h.householdService.ListMembers(c.Request.Context(), uuid.MustParse(uri.ID), !includeFormer)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = toMemberResponse(&members[i])
	}

	h.Success(c, responses)
}

// SearchMembers searches people by name across the association.
// GET /api/v1/members/search?q=
func (h *HouseholdHandler) SearchMembers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Query parameter q is required")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	members, err := h.householdService.SearchMembers(c.Request.Context(), associationID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = toMemberResponse(&members[i])
	}

	h.Success(c, responses)
}

// Leave runs the leave protocol: every current member of the unit is
// marked former while the household record itself stays.
// POST /api/v1/households/:id/leave
func (h *HouseholdHandler) Leave(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid household ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.householdService.Leave(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
