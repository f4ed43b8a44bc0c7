package finance

import (
	"context"
	"fmt"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns the association balance and its summary view
type LedgerService struct {
	ledgerRepo  finance.LedgerAccountRepository
	invoiceRepo finance.InvoiceRepository
	txRepo      finance.FinancialTransactionRepository
	clock       shared.Clock
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	ledgerRepo finance.LedgerAccountRepository,
	invoiceRepo finance.InvoiceRepository,
	txRepo finance.FinancialTransactionRepository,
	clock shared.Clock,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
		txRepo:      txRepo,
		clock:       clock,
	}
}

// FinancialSummary is the association's money position at a glance
type FinancialSummary struct {
	AssociationID  uuid.UUID       `json:"association_id"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	UnpaidInvoices int64           `json:"unpaid_invoices"`
	PaidInvoices   int64           `json:"paid_invoices"`
	Transactions   int64           `json:"transactions"`
}

// CreateForAssociation opens the single ledger account of a new association.
func (s *LedgerService) CreateForAssociation(ctx context.Context, associationID uuid.UUID) (*finance.LedgerAccount, error) {
	existing, err := s.ledgerRepo.FindByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger account: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Association already has a ledger account")
	}

	account, err := finance.NewLedgerAccount(associationID)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save ledger account: %w", err)
	}

	return account, nil
}

// GetBalance returns the association's current balance.
func (s *LedgerService) GetBalance(ctx context.Context, associationID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.ledgerRepo.FindByAssociation(ctx, associationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get ledger account: %w", err)
	}
	if account == nil {
		return decimal.Zero, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}
	return account.Balance, nil
}

// GetSummary returns balance plus invoice and transaction counts.
func (s *LedgerService) GetSummary(ctx context.Context, associationID uuid.UUID) (*FinancialSummary, error) {
	account, err := s.ledgerRepo.FindByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger account: %w", err)
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}

	paid := true
	unpaid := false
	paidCount, err := s.invoiceRepo.CountForAssociation(ctx, associationID, finance.InvoiceFilter{IsPaid: &paid})
	if err != nil {
		return nil, fmt.Errorf("failed to count paid invoices: %w", err)
	}
	unpaidCount, err := s.invoiceRepo.CountForAssociation(ctx, associationID, finance.InvoiceFilter{IsPaid: &unpaid})
	if err != nil {
		return nil, fmt.Errorf("failed to count unpaid invoices: %w", err)
	}
	txCount, err := s.txRepo.CountForAssociation(ctx, associationID, finance.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	balance := account.BalanceMoney()
	return &FinancialSummary{
		AssociationID:  associationID,
		Balance:        balance.Amount(),
		Currency:       string(balance.Currency()),
		UnpaidInvoices: unpaidCount,
		PaidInvoices:   paidCount,
		Transactions:   txCount,
	}, nil
}
