package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/Robi000/CMS/internal/domain/community"
	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService drives the invoice lifecycle and the batch operations
// over groups of invoices. Payment is the only path that credits the
// ledger, and each batch member settles in its own database transaction
// so one failure never rolls back unrelated members.
type InvoiceService struct {
	invoiceRepo   finance.InvoiceRepository
	ledgerRepo    finance.LedgerAccountRepository
	householdRepo community.HouseholdRepository
	txManager     shared.TransactionManager
	clock         shared.Clock
	logger        *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	ledgerRepo finance.LedgerAccountRepository,
	householdRepo community.HouseholdRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		ledgerRepo:    ledgerRepo,
		householdRepo: householdRepo,
		txManager:     txManager,
		clock:         clock,
		logger:        logger,
	}
}

// CreateInvoiceRequest represents a request to issue one invoice
type CreateInvoiceRequest struct {
	AssociationID uuid.UUID
	HouseholdID   uuid.UUID
	Amount        decimal.Decimal
	Reason        string
	DueDate       time.Time
	CreatedBy     string
	GroupID       string // optional, a fresh one is generated when empty
}

// CreateForHouseholdsRequest represents a batch issue across households
type CreateForHouseholdsRequest struct {
	AssociationID uuid.UUID
	HouseholdIDs  []uuid.UUID
	Amount        decimal.Decimal
	Reason        string
	DueDate       time.Time
	CreatedBy     string
}

// BatchResult aggregates the outcome of a mass pay or mass delete.
// Skipped items (already settled, missing) count toward Attempted only.
type BatchResult struct {
	Attempted int             `json:"attempted"`
	Changed   int             `json:"changed"`
	Total     decimal.Decimal `json:"total"`
}

// HouseholdStatement is the invoice roll-up for one household
type HouseholdStatement struct {
	HouseholdID uuid.UUID         `json:"household_id"`
	Invoices    []finance.Invoice `json:"invoices"`
	UnpaidTotal decimal.Decimal   `json:"unpaid_total"`
	PaidTotal   decimal.Decimal   `json:"paid_total"`
}

// Create issues a single invoice. When no group is given the invoice gets
// a group of its own, so batch addressing stays uniform.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*finance.Invoice, error) {
	household, err := s.householdRepo.FindByIDForAssociation(ctx, req.AssociationID, req.HouseholdID)
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	if household == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Household not found")
	}

	groupID := req.GroupID
	if groupID == "" {
		groupID = finance.NewGroupID()
	}

	invoice, err := finance.NewInvoice(
		req.AssociationID, req.HouseholdID, groupID,
		req.Amount, req.Reason, req.DueDate, s.clock.Today())
	if err != nil {
		return nil, err
	}
	invoice.SetCreatedBy(req.CreatedBy)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	return invoice, nil
}

// CreateForHouseholds issues one invoice per household, all tagged with a
// shared group so the batch can be paid or deleted as a unit later.
func (s *InvoiceService) CreateForHouseholds(ctx context.Context, req CreateForHouseholdsRequest) ([]finance.Invoice, error) {
	if len(req.HouseholdIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "At least one household is required")
	}

	groupID := finance.NewGroupID()
	created := make([]finance.Invoice, 0, len(req.HouseholdIDs))

	err := s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		for _, householdID := range req.HouseholdIDs {
			invoice, err := s.Create(c, CreateInvoiceRequest{
				AssociationID: req.AssociationID,
				HouseholdID:   householdID,
				Amount:        req.Amount,
				Reason:        req.Reason,
				DueDate:       req.DueDate,
				CreatedBy:     req.CreatedBy,
				GroupID:       groupID,
			})
			if err != nil {
				return err
			}
			created = append(created, *invoice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns one invoice with its penalty refreshed. A changed penalty is
// persisted so every read shows the charge the household would pay now.
func (s *InvoiceService) Get(ctx context.Context, associationID, invoiceID uuid.UUID) (*finance.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForAssociation(ctx, associationID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if invoice.RecalculatePenalty(s.clock.Today()) {
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return nil, fmt.Errorf("failed to persist penalty: %w", err)
		}
	}

	return invoice, nil
}

// List returns invoices matching the filter, penalties refreshed.
func (s *InvoiceService) List(ctx context.Context, associationID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	invoices, err := s.invoiceRepo.FindAllForAssociation(ctx, associationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return s.refreshPenalties(ctx, invoices)
}

// ListGroups returns the distinct batch tags of an association.
func (s *InvoiceService) ListGroups(ctx context.Context, associationID uuid.UUID) ([]string, error) {
	groups, err := s.invoiceRepo.DistinctGroups(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice groups: %w", err)
	}
	return groups, nil
}

// Pay settles one invoice and credits the ledger with amount plus the
// penalty frozen at this moment. State change and credit commit together
// or not at all; a second pay of the same invoice is rejected unchanged.
func (s *InvoiceService) Pay(ctx context.Context, associationID, invoiceID uuid.UUID, acceptedBy string) (*finance.Invoice, error) {
	var paid *finance.Invoice

	err := s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		invoice, err := s.invoiceRepo.FindByIDForAssociation(c, associationID, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice == nil {
			return shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}

		invoice.RecalculatePenalty(s.clock.Today())
		if err := invoice.MarkPaid(s.clock.Now(), acceptedBy); err != nil {
			return err
		}

		account, err := s.ledgerRepo.FindByAssociationForUpdate(c, associationID)
		if err != nil {
			return fmt.Errorf("failed to get ledger account: %w", err)
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger account not found")
		}

		if err := account.Credit(invoice.TotalDue()); err != nil {
			return err
		}

		if err := s.invoiceRepo.SaveWithLock(c, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := s.ledgerRepo.Save(c, account); err != nil {
			return fmt.Errorf("failed to save ledger account: %w", err)
		}

		paid = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paid, nil
}

// Delete removes one unpaid invoice. The penalty is refreshed first so the
// reported amount reflects what the household would have owed.
func (s *InvoiceService) Delete(ctx context.Context, associationID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	invoice, err := s.invoiceRepo.FindByIDForAssociation(ctx, associationID, invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return decimal.Zero, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	if err := invoice.CanDelete(); err != nil {
		return decimal.Zero, err
	}

	invoice.RecalculatePenalty(s.clock.Today())
	total := invoice.TotalDue()

	if err := s.invoiceRepo.Delete(ctx, invoice.ID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to delete invoice: %w", err)
	}

	return total, nil
}

// PayMany settles a set of invoices, skipping missing or already paid
// ones. Each settlement is its own atomic unit; a failure on one member
// is logged and skipped, never aborting the rest of the batch.
func (s *InvoiceService) PayMany(ctx context.Context, associationID uuid.UUID, invoiceIDs []uuid.UUID, acceptedBy string) (*BatchResult, error) {
	result := &BatchResult{Total: decimal.Zero}

	for _, id := range invoiceIDs {
		result.Attempted++
		invoice, err := s.Pay(ctx, associationID, id, acceptedBy)
		if err != nil {
			s.logger.Warn("batch pay skipped invoice",
				zap.String("invoice_id", id.String()),
				zap.Error(err))
			continue
		}
		result.Changed++
		result.Total = result.Total.Add(invoice.TotalDue())
	}

	return result, nil
}

// PayGroup settles every open invoice of one batch tag.
func (s *InvoiceService) PayGroup(ctx context.Context, associationID uuid.UUID, groupID, acceptedBy string) (*BatchResult, error) {
	invoices, err := s.invoiceRepo.FindByGroup(ctx, associationID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice group: %w", err)
	}
	return s.PayMany(ctx, associationID, invoiceIDs(invoices), acceptedBy)
}

// DeleteMany removes a set of unpaid invoices with the same skip
// semantics as PayMany.
func (s *InvoiceService) DeleteMany(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) (*BatchResult, error) {
	result := &BatchResult{Total: decimal.Zero}

	for _, id := range ids {
		result.Attempted++
		total, err := s.Delete(ctx, associationID, id)
		if err != nil {
			s.logger.Warn("batch delete skipped invoice",
				zap.String("invoice_id", id.String()),
				zap.Error(err))
			continue
		}
		result.Changed++
		result.Total = result.Total.Add(total)
	}

	return result, nil
}

// DeleteGroup removes every unpaid invoice of one batch tag.
func (s *InvoiceService) DeleteGroup(ctx context.Context, associationID uuid.UUID, groupID string) (*BatchResult, error) {
	invoices, err := s.invoiceRepo.FindByGroup(ctx, associationID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice group: %w", err)
	}
	return s.DeleteMany(ctx, associationID, invoiceIDs(invoices))
}

// Statement rolls up one household's invoices with unpaid/paid totals.
func (s *InvoiceService) Statement(ctx context.Context, associationID, householdID uuid.UUID) (*HouseholdStatement, error) {
	invoices, err := s.invoiceRepo.FindByHousehold(ctx, associationID, householdID, finance.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load household invoices: %w", err)
	}

	invoices, err = s.refreshPenalties(ctx, invoices)
	if err != nil {
		return nil, err
	}

	statement := &HouseholdStatement{
		HouseholdID: householdID,
		Invoices:    invoices,
		UnpaidTotal: decimal.Zero,
		PaidTotal:   decimal.Zero,
	}
	for i := range invoices {
		if invoices[i].IsPaid {
			statement.PaidTotal = statement.PaidTotal.Add(invoices[i].TotalDue())
		} else {
			statement.UnpaidTotal = statement.UnpaidTotal.Add(invoices[i].TotalDue())
		}
	}

	return statement, nil
}

// PayAllForHousehold settles every open invoice of one household.
func (s *InvoiceService) PayAllForHousehold(ctx context.Context, associationID, householdID uuid.UUID, acceptedBy string) (*BatchResult, error) {
	invoices, err := s.invoiceRepo.FindUnpaidByHousehold(ctx, associationID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load household invoices: %w", err)
	}
	return s.PayMany(ctx, associationID, invoiceIDs(invoices), acceptedBy)
}

// ClearAllForHousehold deletes every open invoice of one household.
func (s *InvoiceService) ClearAllForHousehold(ctx context.Context, associationID, householdID uuid.UUID) (*BatchResult, error) {
	invoices, err := s.invoiceRepo.FindUnpaidByHousehold(ctx, associationID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load household invoices: %w", err)
	}
	return s.DeleteMany(ctx, associationID, invoiceIDs(invoices))
}

func (s *InvoiceService) refreshPenalties(ctx context.Context, invoices []finance.Invoice) ([]finance.Invoice, error) {
	today := s.clock.Today()
	for i := range invoices {
		if invoices[i].RecalculatePenalty(today) {
			if err := s.invoiceRepo.Save(ctx, &invoices[i]); err != nil {
				return nil, fmt.Errorf("failed to persist penalty: %w", err)
			}
		}
	}
	return invoices, nil
}

func invoiceIDs(invoices []finance.Invoice) []uuid.UUID {
	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	return ids
}
