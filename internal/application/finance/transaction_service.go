package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService records manual incomes and expenses against the
// association ledger. Every mutation runs inside one database transaction
// with the ledger row locked, so the balance and the transaction list can
// never drift apart.
type TransactionService struct {
	txRepo     finance.FinancialTransactionRepository
	ledgerRepo finance.LedgerAccountRepository
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo finance.FinancialTransactionRepository,
	ledgerRepo finance.LedgerAccountRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *TransactionService {
	return &TransactionService{
		txRepo:     txRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		clock:      clock,
	}
}

// RecordTransactionRequest represents a request to record an income or expense
type RecordTransactionRequest struct {
	AssociationID uuid.UUID
	Type          finance.TransactionType
	Amount        decimal.Decimal
	Reason        string
	Date          *time.Time // defaults to today
	AccessedBy    string
}

// UpdateTransactionRequest represents a request to edit a recorded transaction
type UpdateTransactionRequest struct {
	AssociationID uuid.UUID
	TransactionID uuid.UUID
	Type          finance.TransactionType
	Amount        decimal.Decimal
	Reason        string
}

// Record validates and applies a new transaction's ledger effect, then
// persists it. An expense exceeding the balance aborts with no change.
func (s *TransactionService) Record(ctx context.Context, req RecordTransactionRequest) (*finance.FinancialTransaction, error) {
	date := s.clock.Today()
	if req.Date != nil {
		date = *req.Date
	}

	tx, err := finance.NewFinancialTransaction(
		req.AssociationID, req.Type, req.Amount, req.Reason, date, req.AccessedBy)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		account, err := s.ledgerRepo.FindByAssociationForUpdate(c, req.AssociationID)
		if err != nil {
			return fmt.Errorf("failed to get ledger account: %w", err)
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger account not found")
		}

		if err := tx.Type.Apply(account, tx.Amount); err != nil {
			return err
		}

		if err := s.ledgerRepo.Save(c, account); err != nil {
			return fmt.Errorf("failed to save ledger account: %w", err)
		}
		if err := s.txRepo.Save(c, tx); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// Update reverses the old effect and applies the new one atomically, so
// the balance moves by exactly the difference between old and new values.
// The new effect is re-validated against the intermediate balance.
func (s *TransactionService) Update(ctx context.Context, req UpdateTransactionRequest) (*finance.FinancialTransaction, error) {
	var updated *finance.FinancialTransaction

	err := s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		tx, err := s.txRepo.FindByIDForAssociation(c, req.AssociationID, req.TransactionID)
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		if tx == nil {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}

		account, err := s.ledgerRepo.FindByAssociationForUpdate(c, req.AssociationID)
		if err != nil {
			return fmt.Errorf("failed to get ledger account: %w", err)
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger account not found")
		}

		if err := tx.Type.Reverse(account, tx.Amount); err != nil {
			return err
		}
		if err := req.Type.Apply(account, req.Amount); err != nil {
			return err
		}

		if err := tx.ChangeAmountAndType(req.Type, req.Amount); err != nil {
			return err
		}
		if req.Reason != "" {
			if err := tx.SetReason(req.Reason); err != nil {
				return err
			}
		}

		if err := s.ledgerRepo.Save(c, account); err != nil {
			return fmt.Errorf("failed to save ledger account: %w", err)
		}
		if err := s.txRepo.SaveWithLock(c, tx); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}

		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a transaction and reverses its ledger effect in the same
// database transaction, so the ledger only ever reflects recorded entries.
func (s *TransactionService) Delete(ctx context.Context, associationID, transactionID uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(c context.Context) error {
		tx, err := s.txRepo.FindByIDForAssociation(c, associationID, transactionID)
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		if tx == nil {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}

		account, err := s.ledgerRepo.FindByAssociationForUpdate(c, associationID)
		if err != nil {
			return fmt.Errorf("failed to get ledger account: %w", err)
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Ledger account not found")
		}

		if err := tx.Type.Reverse(account, tx.Amount); err != nil {
			return err
		}

		if err := s.ledgerRepo.Save(c, account); err != nil {
			return fmt.Errorf("failed to save ledger account: %w", err)
		}
		if err := s.txRepo.Delete(c, tx.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
}

// Get returns a single transaction.
func (s *TransactionService) Get(ctx context.Context, associationID, transactionID uuid.UUID) (*finance.FinancialTransaction, error) {
	tx, err := s.txRepo.FindByIDForAssociation(ctx, associationID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	return tx, nil
}

// List returns transactions matching the filter.
func (s *TransactionService) List(ctx context.Context, associationID uuid.UUID, filter finance.TransactionFilter) ([]finance.FinancialTransaction, error) {
	txs, err := s.txRepo.FindAllForAssociation(ctx, associationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
