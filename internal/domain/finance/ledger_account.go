package finance

import (
	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/Robi000/CMS/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccount is the running balance for one association.
// It is the aggregate root for all balance mutations: Credit and Debit are
// the only operations that may change the balance, and every caller goes
// through them rather than writing the balance directly.
type LedgerAccount struct {
	shared.BaseAggregateRoot
	AssociationID uuid.UUID
	Balance       decimal.Decimal
}

// NewLedgerAccount creates the ledger account for an association.
// Exactly one account exists per association, created when the association
// is created and never deleted while the association exists.
func NewLedgerAccount(associationID uuid.UUID) (*LedgerAccount, error) {
	if associationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATION", "Association ID cannot be empty")
	}

	account := &LedgerAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AssociationID:     associationID,
		Balance:           decimal.Zero,
	}

	account.AddDomainEvent(NewLedgerAccountCreatedEvent(account))

	return account, nil
}

// Credit adds a positive amount to the balance. There is no upper bound.
func (a *LedgerAccount) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	oldBalance := a.Balance
	a.Balance = a.Balance.Add(amount)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewLedgerBalanceChangedEvent(a, oldBalance, "credit"))

	return nil
}

// Debit removes a positive amount from the balance.
// A debit that would make the balance negative is rejected.
func (a *LedgerAccount) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if a.Balance.LessThan(amount) {
		return shared.NewDomainErrorf("INSUFFICIENT_BALANCE",
			"Insufficient balance: available %s, required %s",
			a.Balance.StringFixed(2), amount.StringFixed(2))
	}

	oldBalance := a.Balance
	a.Balance = a.Balance.Sub(amount)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewLedgerBalanceChangedEvent(a, oldBalance, "debit"))

	return nil
}

// BalanceMoney returns the balance as Money
func (a *LedgerAccount) BalanceMoney() valueobject.Money {
	return valueobject.NewMoneyETB(a.Balance)
}
