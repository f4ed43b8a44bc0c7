package finance

import (
	"context"
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	HouseholdID *uuid.UUID // Filter by household
	GroupID     *string    // Filter by issuing batch
	IsPaid      *bool      // Filter by settlement state
	DueFrom     *time.Time // Filter by due date range start
	DueTo       *time.Time // Filter by due date range end
	Overdue     *bool      // Filter only unpaid invoices past their due date
}

// TransactionFilter defines filtering options for financial transaction queries
type TransactionFilter struct {
	shared.Filter
	Type     *TransactionType // Filter by income or expense
	FromDate *time.Time       // Filter by transaction date range start
	ToDate   *time.Time       // Filter by transaction date range end
}

// LedgerAccountRepository defines the interface for ledger account persistence
type LedgerAccountRepository interface {
	// FindByID finds a ledger account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerAccount, error)

	// FindByAssociation finds the single ledger account of an association
	FindByAssociation(ctx context.Context, associationID uuid.UUID) (*LedgerAccount, error)

	// FindByAssociationForUpdate loads the ledger account with a row lock,
	// so concurrent balance mutations inside a transaction serialize
	FindByAssociationForUpdate(ctx context.Context, associationID uuid.UUID) (*LedgerAccount, error)

	// Save creates or updates a ledger account
	Save(ctx context.Context, account *LedgerAccount) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, account *LedgerAccount) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForAssociation finds an invoice by ID scoped to an association
	FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*Invoice, error)

	// FindByIDs finds invoices by a set of IDs scoped to an association
	FindByIDs(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) ([]Invoice, error)

	// FindAllForAssociation finds all invoices for an association with filtering
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindByHousehold finds invoices for one household
	FindByHousehold(ctx context.Context, associationID, householdID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindByGroup finds all invoices issued in one batch
	FindByGroup(ctx context.Context, associationID uuid.UUID, groupID string) ([]Invoice, error)

	// FindUnpaidByHousehold finds every open invoice of one household
	FindUnpaidByHousehold(ctx context.Context, associationID, householdID uuid.UUID) ([]Invoice, error)

	// DistinctGroups lists the batch IDs present for an association
	DistinctGroups(ctx context.Context, associationID uuid.UUID) ([]string, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete soft deletes an invoice
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAssociation counts invoices for an association with optional filters
	CountForAssociation(ctx context.Context, associationID uuid.UUID, filter InvoiceFilter) (int64, error)
}

// FinancialTransactionRepository defines the interface for transaction persistence
type FinancialTransactionRepository interface {
	// FindByID finds a financial transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)

	// FindByIDForAssociation finds a transaction by ID scoped to an association
	FindByIDForAssociation(ctx context.Context, associationID, id uuid.UUID) (*FinancialTransaction, error)

	// FindAllForAssociation finds all transactions for an association with filtering
	FindAllForAssociation(ctx context.Context, associationID uuid.UUID, filter TransactionFilter) ([]FinancialTransaction, error)

	// Save creates or updates a financial transaction
	Save(ctx context.Context, tx *FinancialTransaction) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, tx *FinancialTransaction) error

	// Delete soft deletes a financial transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAssociation counts transactions for an association with optional filters
	CountForAssociation(ctx context.Context, associationID uuid.UUID, filter TransactionFilter) (int64, error)
}
