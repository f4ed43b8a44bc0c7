package finance

import (
	"strings"
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a manual financial movement.
// Each variant knows how to apply and reverse its own effect on the ledger,
// so call sites never branch on the type string.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Apply applies the transaction's effect to the ledger account:
// income credits, expense debits. An expense exceeding the balance is
// rejected by the ledger's debit guard.
func (t TransactionType) Apply(account *LedgerAccount, amount decimal.Decimal) error {
	if t == TransactionTypeIncome {
		return account.Credit(amount)
	}
	return account.Debit(amount)
}

// Reverse undoes the transaction's effect on the ledger account:
// a past income is debited back out, a past expense is credited back in.
func (t TransactionType) Reverse(account *LedgerAccount, amount decimal.Decimal) error {
	if t == TransactionTypeIncome {
		return account.Debit(amount)
	}
	return account.Credit(amount)
}

// FinancialTransaction represents one manual income or expense entry
// recorded by an operator against the association ledger.
type FinancialTransaction struct {
	shared.AssociationAggregateRoot
	Type       TransactionType
	Amount     decimal.Decimal
	Reason     string
	Date       time.Time
	AccessedBy string
}

// NewFinancialTransaction creates a new financial transaction.
// The ledger effect is NOT applied here - the recorder applies it
// explicitly before persisting, so the ordering stays auditable.
func NewFinancialTransaction(
	associationID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	reason string,
	date time.Time,
	accessedBy string,
) (*FinancialTransaction, error) {
	if associationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATION", "Association ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Transaction reason cannot be empty")
	}

	tx := &FinancialTransaction{
		AssociationAggregateRoot: shared.NewAssociationAggregateRoot(associationID),
		Type:                     txType,
		Amount:                   amount,
		Reason:                   reason,
		Date:                     shared.Midnight(date),
		AccessedBy:               accessedBy,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// ChangeAmountAndType replaces the transaction's amount and type.
// The caller must have reversed the old effect and applied the new one
// against the ledger before committing the change.
func (tx *FinancialTransaction) ChangeAmountAndType(newType TransactionType, newAmount decimal.Decimal) error {
	if !newType.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be income or expense")
	}
	if !newAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	tx.Type = newType
	tx.Amount = newAmount
	tx.Touch()
	tx.IncrementVersion()

	return nil
}

// SetReason updates the free-text reason. Reason edits have no ledger effect.
func (tx *FinancialTransaction) SetReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Transaction reason cannot be empty")
	}
	tx.Reason = reason
	tx.Touch()
	tx.IncrementVersion()
	return nil
}
