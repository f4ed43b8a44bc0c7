package finance

import (
	"strings"
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewGroupID generates a short identifier shared by every invoice issued
// in one batch, so a whole batch can be addressed as a unit later.
func NewGroupID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:7]
}

// Invoice is a dues demand issued to a single household. The stored
// penalty is a snapshot of the overdue charge at the last time the
// invoice was read, and is frozen once the invoice is paid.
type Invoice struct {
	shared.AssociationAggregateRoot
	HouseholdID       uuid.UUID
	GroupID           string
	Amount            decimal.Decimal
	Penalty           decimal.Decimal
	Reason            string
	IssuedDate        time.Time
	DueDate           time.Time
	IsPaid            bool
	PaidAt            *time.Time
	PaymentAcceptedBy string
}

// NewInvoice creates an unpaid invoice. The due date must not already
// have passed on the day of issue.
func NewInvoice(
	associationID uuid.UUID,
	householdID uuid.UUID,
	groupID string,
	amount decimal.Decimal,
	reason string,
	dueDate time.Time,
	today time.Time,
) (*Invoice, error) {
	if associationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATION", "Association ID cannot be empty")
	}
	if householdID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOUSEHOLD", "Household ID cannot be empty")
	}
	if groupID == "" {
		return nil, shared.NewDomainError("INVALID_GROUP", "Invoice group ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if shared.Midnight(dueDate).Before(shared.Midnight(today)) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Invoice due date cannot be in the past")
	}

	invoice := &Invoice{
		AssociationAggregateRoot: shared.NewAssociationAggregateRoot(associationID),
		HouseholdID:              householdID,
		GroupID:                  groupID,
		Amount:                   amount,
		Penalty:                  decimal.Zero,
		Reason:                   reason,
		IssuedDate:               shared.Midnight(today),
		DueDate:                  shared.Midnight(dueDate),
		IsPaid:                   false,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// RecalculatePenalty refreshes the stored penalty from the current
// overdue schedule. Paid invoices keep the penalty they settled with.
// Returns true when the stored value changed and needs persisting.
func (i *Invoice) RecalculatePenalty(today time.Time) bool {
	if i.IsPaid {
		return false
	}
	penalty := OverduePenalty(i.Amount, i.DueDate, today, i.IsPaid)
	if penalty.Equal(i.Penalty) {
		return false
	}
	i.Penalty = penalty
	i.Touch()
	return true
}

// TotalDue is the amount plus the currently stored penalty.
func (i *Invoice) TotalDue() decimal.Decimal {
	return i.Amount.Add(i.Penalty)
}

// MarkPaid settles the invoice at the given instant. Settling an already
// paid invoice is rejected so the ledger is never credited twice.
func (i *Invoice) MarkPaid(paidAt time.Time, acceptedBy string) error {
	if i.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}

	i.IsPaid = true
	i.PaidAt = &paidAt
	i.PaymentAcceptedBy = acceptedBy
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// CanDelete reports whether the invoice may be removed. Paid invoices
// are part of the financial record and stay.
func (i *Invoice) CanDelete() error {
	if i.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be deleted")
	}
	return nil
}

// Status names the invoice state for listings: paid, overdue or pending.
func (i *Invoice) Status(today time.Time) string {
	if i.IsPaid {
		return "paid"
	}
	if shared.Midnight(today).After(i.DueDate) {
		return "overdue"
	}
	return "pending"
}
