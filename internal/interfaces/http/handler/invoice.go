package handler

import (
	"strconv"
	"time"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice issuing, settlement, and statements
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appfinance.InvoiceService
	clock          shared.Clock
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *appfinance.InvoiceService, clock shared.Clock) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		clock:          clock,
	}
}

// CreateInvoiceRequest issues a single invoice
type CreateInvoiceRequest struct {
	HouseholdID string          `json:"household_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Reason      string          `json:"reason" binding:"required,max=255"`
	DueDate     string          `json:"due_date" binding:"required"`
	GroupID     string          `json:"group_id" binding:"omitempty,max=10"`
}

// CreateBatchInvoiceRequest issues one invoice per household under a
// shared group
type CreateBatchInvoiceRequest struct {
	HouseholdIDs []string        `json:"household_ids" binding:"required,min=1,dive,uuid"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reason       string          `json:"reason" binding:"required,max=255"`
	DueDate      string          `json:"due_date" binding:"required"`
}

// PayRequest accepts payment for a set of invoices
type PayRequest struct {
	InvoiceIDs []string `json:"invoice_ids" binding:"required,min=1,dive,uuid"`
}

// DeleteManyRequest removes a set of unpaid invoices
type DeleteManyRequest struct {
	InvoiceIDs []string `json:"invoice_ids" binding:"required,min=1,dive,uuid"`
}

// InvoiceResponse is the outward representation of an invoice
type InvoiceResponse struct {
	ID                uuid.UUID       `json:"id"`
	HouseholdID       uuid.UUID       `json:"household_id"`
	GroupID           string          `json:"group_id"`
	Amount            decimal.Decimal `json:"amount"`
	Penalty           decimal.Decimal `json:"penalty"`
	TotalDue          decimal.Decimal `json:"total_due"`
	Reason            string          `json:"reason"`
	IssuedDate        time.Time       `json:"issued_date"`
	DueDate           time.Time       `json:"due_date"`
	Status            string          `json:"status"`
	IsPaid            bool            `json:"is_paid"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	PaymentAcceptedBy string          `json:"payment_accepted_by,omitempty"`
}

func (h *InvoiceHandler) toInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                inv.ID,
		HouseholdID:       inv.HouseholdID,
		GroupID:           inv.GroupID,
		Amount:            inv.Amount,
		Penalty:           inv.Penalty,
		TotalDue:          inv.TotalDue(),
		Reason:            inv.Reason,
		IssuedDate:        inv.IssuedDate,
		DueDate:           inv.DueDate,
		Status:            inv.Status(h.clock.Now()),
		IsPaid:            inv.IsPaid,
		PaidAt:            inv.PaidAt,
		PaymentAcceptedBy: inv.PaymentAcceptedBy,
	}
}

func (h *InvoiceHandler) toInvoiceResponses(invoices []finance.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = h.toInvoiceResponse(&invoices[i])
	}
	return responses
}

func parseDueDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// Create issues a single invoice to a household.
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be formatted YYYY-MM-DD")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), appfinance.CreateInvoiceRequest{
		AssociationID: associationID,
		HouseholdID:   uuid.MustParse(req.HouseholdID),
		Amount:        req.Amount,
		Reason:        req.Reason,
		DueDate:       dueDate,
		CreatedBy:     getUsername(c),
		GroupID:       req.GroupID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, h.toInvoiceResponse(invoice))
}

// CreateBatch issues one invoice per listed household, all sharing a
// freshly generated group ID.
// POST /api/v1/invoices/batch
func (h *InvoiceHandler) CreateBatch(c *gin.Context) {
	var req CreateBatchInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be formatted YYYY-MM-DD")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	householdIDs := make([]uuid.UUID, len(req.HouseholdIDs))
	for i, id := range req.HouseholdIDs {
		householdIDs[i] = uuid.MustParse(id)
	}

	invoices, err := h.invoiceService.CreateForHouseholds(c.Request.Context(), appfinance.CreateForHouseholdsRequest{
		AssociationID: associationID,
		HouseholdIDs:  householdIDs,
		Amount:        req.Amount,
		Reason:        req.Reason,
		DueDate:       dueDate,
		CreatedBy:     getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, h.toInvoiceResponses(invoices))
}

// List returns invoices with optional household, group, settlement, due
// window, and overdue filters.
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
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

	filter := finance.InvoiceFilter{Filter: listRequestToFilter(req)}
	if v := c.Query("household_id"); v != "" {
		householdID, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "household_id must be a UUID")
			return
		}
		filter.HouseholdID = &householdID
	}
	if v := c.Query("group_id"); v != "" {
		filter.GroupID = &v
	}
	if v := c.Query("is_paid"); v != "" {
		isPaid, err := strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "is_paid must be true or false")
			return
		}
		filter.IsPaid = &isPaid
	}
	if v := c.Query("overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "overdue must be true or false")
			return
		}
		filter.Overdue = &overdue
	}
	dueFrom, err := parseDateParam(c.Query("due_from"))
	if err != nil {
		h.BadRequest(c, "due_from must be formatted YYYY-MM-DD")
		return
	}
	filter.DueFrom = dueFrom
	dueTo, err := parseDateParam(c.Query("due_to"))
	if err != nil {
		h.BadRequest(c, "due_to must be formatted YYYY-MM-DD")
		return
	}
	filter.DueTo = dueTo

	invoices, err := h.invoiceService.List(c.Request.Context(), associationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toInvoiceResponses(invoices))
}

// ListGroups returns the distinct issuing batch IDs of the association.
// GET /api/v1/invoices/groups
func (h *InvoiceHandler) ListGroups(c *gin.Context) {
	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groups, err := h.invoiceService.ListGroups(c.Request.Context(), associationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// Get returns one invoice with its penalty brought up to date.
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toInvoiceResponse(invoice))
}

// Pay settles a single invoice and credits the ledger.
// POST /api/v1/invoices/:id/pay
func (h *InvoiceHandler) Pay(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoice, err := h.invoiceService.Pay(c.Request.Context(), associationID, uuid.MustParse(uri.ID), getUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toInvoiceResponse(invoice))
}

// PayMany settles a set of invoices. Already settled or missing ones are
// skipped, not errors.
// POST /api/v1/invoices/pay
func (h *InvoiceHandler) PayMany(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ids := make([]uuid.UUID, len(req.InvoiceIDs))
	for i, id := range req.InvoiceIDs {
		ids[i] = uuid.MustParse(id)
	}

	result, err := h.invoiceService.PayMany(c.Request.Context(), associationID, ids, getUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PayGroup settles every unpaid invoice of an issuing batch.
// POST /api/v1/invoices/groups/:group/pay
func (h *InvoiceHandler) PayGroup(c *gin.Context) {
	groupID := c.Param("group")
	if groupID == "" {
		h.BadRequest(c, "Group ID is required")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.invoiceService.PayGroup(c.Request.Context(), associationID, groupID, getUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an unpaid invoice.
// DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if _, err := h.invoiceService.Delete(c.Request.Context(), associationID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteMany removes a set of unpaid invoices.
// POST /api/v1/invoices/delete
func (h *InvoiceHandler) DeleteMany(c *gin.Context) {
	var req DeleteManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ids := make([]uuid.UUID, len(req.InvoiceIDs))
	for i, id := range req.InvoiceIDs {
		ids[i] = uuid.MustParse(id)
	}

	result, err := h.invoiceService.DeleteMany(c.Request.Context(), associationID, ids)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteGroup removes every unpaid invoice of an issuing batch.
// DELETE /api/v1/invoices/groups/:group
func (h *InvoiceHandler) DeleteGroup(c *gin.Context) {
	groupID := c.Param("group")
	if groupID == "" {
		h.BadRequest(c, "Group ID is required")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.invoiceService.DeleteGroup(c.Request.Context(), associationID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Statement returns the invoice roll-up for one household.
// GET /api/v1/households/:id/statement
func (h *InvoiceHandler) Statement(c *gin.Context) {
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

	statement, err := h.invoiceService.Statement(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statement)
}

// PayAllForHousehold settles every unpaid invoice of a household at once.
// POST /api/v1/households/:id/invoices/pay-all
func (h *InvoiceHandler) PayAllForHousehold(c *gin.Context) {
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

	result, err := h.invoiceService.PayAllForHousehold(c.Request.Context(), associationID, uuid.MustParse(uri.ID), getUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ClearAllForHousehold removes every unpaid invoice of a household, used
// when debts are waived as part of the leave protocol.
// POST /api/v1/households/:id/invoices/clear
func (h *InvoiceHandler) ClearAllForHousehold(c *gin.Context) {
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

	result, err := h.invoiceService.ClearAllForHousehold(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
