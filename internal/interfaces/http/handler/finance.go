package handler

import (
	"time"

	appfinance "github.com/Robi000/CMS/internal/application/finance"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles the financial ledger: income and expense
// transactions plus the association's money position.
type FinanceHandler struct {
	BaseHandler
	transactionService *appfinance.TransactionService
	ledgerService      *appfinance.LedgerService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(transactionService *appfinance.TransactionService, ledgerService *appfinance.LedgerService) *FinanceHandler {
	return &FinanceHandler{
		transactionService: transactionService,
		ledgerService:      ledgerService,
	}
}

// RecordTransactionRequest records an income or expense
type RecordTransactionRequest struct {
	Type   string          `json:"type" binding:"required,oneof=income expense"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=255"`
	Date   string          `json:"date" binding:"omitempty"`
}

// UpdateTransactionRequest edits a recorded transaction
type UpdateTransactionRequest struct {
	Type   string          `json:"type" binding:"required,oneof=income expense"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=255"`
}

// TransactionResponse is the outward representation of a ledger transaction
type TransactionResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	Date       time.Time       `json:"date"`
	AccessedBy string          `json:"accessed_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toTransactionResponse(t *finance.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:         t.ID,
		Type:       string(t.Type),
		Amount:     t.Amount,
		Reason:     t.Reason,
		Date:       t.Date,
		AccessedBy: t.AccessedBy,
		CreatedAt:  t.CreatedAt,
	}
}

// Record records an income or expense against the ledger.
// POST /api/v1/transactions
func (h *FinanceHandler) Record(c *gin.Context) {
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.BadRequest(c, "date must be formatted YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transaction, err := h.transactionService.Record(c.Request.Context(), appfinance.RecordTransactionRequest{
		AssociationID: associationID,
		Type:          finance.TransactionType(req.Type),
		Amount:        req.Amount,
		Reason:        req.Reason,
		Date:          date,
		AccessedBy:    getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(transaction))
}

// Update edits a recorded transaction, re-applying its ledger effect.
// PUT /api/v1/transactions/:id
func (h *FinanceHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transaction, err := h.transactionService.Update(c.Request.Context(), appfinance.UpdateTransactionRequest{
		AssociationID: associationID,
		TransactionID: uuid.MustParse(uri.ID),
		Type:          finance.TransactionType(req.Type),
		Amount:        req.Amount,
		Reason:        req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTransactionResponse(transaction))
}

// Delete removes a transaction and reverses its ledger effect.
// DELETE /api/v1/transactions/:id
func (h *FinanceHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), associationID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns one transaction.
// GET /api/v1/transactions/:id
func (h *FinanceHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transaction, err := h.transactionService.Get(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTransactionResponse(transaction))
}

// List returns transactions with optional type and date range filters.
// GET /api/v1/transactions
func (h *FinanceHandler) List(c *gin.Context) {
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

	filter := finance.TransactionFilter{Filter: listRequestToFilter(req)}
	if v := c.Query("type"); v != "" {
		transactionType := finance.TransactionType(v)
		if transactionType != finance.TransactionTypeIncome && transactionType != finance.TransactionTypeExpense {
			h.BadRequest(c, "type must be income or expense")
			return
		}
		filter.Type = &transactionType
	}
	fromDate, err := parseDateParam(c.Query("from"))
	if err != nil {
		h.BadRequest(c, "from must be formatted YYYY-MM-DD")
		return
	}
	filter.FromDate = fromDate
	toDate, err := parseDateParam(c.Query("to"))
	if err != nil {
		h.BadRequest(c, "to must be formatted YYYY-MM-DD")
		return
	}
	filter.ToDate = toDate

	transactions, err := h.transactionService.List(c.Request.Context(), associationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = toTransactionResponse(&transactions[i])
	}

	h.Success(c, responses)
}

// Balance returns the ledger balance.
// GET /api/v1/finance/balance
func (h *FinanceHandler) Balance(c *gin.Context) {
	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), associationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"balance": balance})
}

// Summary returns the association's money position at a glance.
// GET /api/v1/finance/summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.ledgerService.GetSummary(c.Request.Context(), associationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
