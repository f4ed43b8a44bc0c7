package finance

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccountCreatedEvent is raised when an association gets its ledger account
type LedgerAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID       `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// EventType returns the event type name
func (e *LedgerAccountCreatedEvent) EventType() string {
	return "LedgerAccountCreated"
}

// NewLedgerAccountCreatedEvent creates a new LedgerAccountCreatedEvent
func NewLedgerAccountCreatedEvent(account *LedgerAccount) *LedgerAccountCreatedEvent {
	return &LedgerAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerAccountCreated", "LedgerAccount", account.ID, account.AssociationID),
		AccountID:       account.ID,
		Balance:         account.Balance,
	}
}

// LedgerBalanceChangedEvent is raised whenever the ledger balance moves
type LedgerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	AccountID  uuid.UUID       `json:"account_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Operation  string          `json:"operation"`
}

// EventType returns the event type name
func (e *LedgerBalanceChangedEvent) EventType() string {
	return "LedgerBalanceChanged"
}

// NewLedgerBalanceChangedEvent creates a new LedgerBalanceChangedEvent
func NewLedgerBalanceChangedEvent(account *LedgerAccount, oldBalance decimal.Decimal, operation string) *LedgerBalanceChangedEvent {
	return &LedgerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerBalanceChanged", "LedgerAccount", account.ID, account.AssociationID),
		AccountID:       account.ID,
		OldBalance:      oldBalance,
		NewBalance:      account.Balance,
		Operation:       operation,
	}
}

// TransactionRecordedEvent is raised when a manual income or expense is recorded
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Date          time.Time       `json:"date"`
}

// EventType returns the event type name
func (e *TransactionRecordedEvent) EventType() string {
	return "TransactionRecorded"
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *FinancialTransaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionRecorded", "FinancialTransaction", tx.ID, tx.AssociationID),
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		Reason:          tx.Reason,
		Date:            tx.Date,
	}
}

// InvoiceCreatedEvent is raised when a new invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	HouseholdID uuid.UUID       `json:"household_id"`
	GroupID     string          `json:"group_id"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", invoice.ID, invoice.AssociationID),
		InvoiceID:       invoice.ID,
		HouseholdID:     invoice.HouseholdID,
		GroupID:         invoice.GroupID,
		Amount:          invoice.Amount,
		DueDate:         invoice.DueDate,
	}
}

// InvoicePaidEvent is raised when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	HouseholdID uuid.UUID       `json:"household_id"`
	Amount      decimal.Decimal `json:"amount"`
	Penalty     decimal.Decimal `json:"penalty"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	PaidAt      time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	paidAt := time.Now()
	if invoice.PaidAt != nil {
		paidAt = *invoice.PaidAt
	}
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", invoice.ID, invoice.AssociationID),
		InvoiceID:       invoice.ID,
		HouseholdID:     invoice.HouseholdID,
		Amount:          invoice.Amount,
		Penalty:         invoice.Penalty,
		TotalPaid:       invoice.Amount.Add(invoice.Penalty),
		PaidAt:          paidAt,
	}
}
