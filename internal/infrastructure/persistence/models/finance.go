package models

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccountModel is the GORM model for ledger accounts. Each
// association has exactly one.
type LedgerAccountModel struct {
	AggregateModel
	AssociationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name for LedgerAccountModel
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts LedgerAccountModel to domain LedgerAccount
func (m *LedgerAccountModel) ToDomain() *finance.LedgerAccount {
	account := &finance.LedgerAccount{
		AssociationID: m.AssociationID,
		Balance:       m.Balance,
	}
	m.PopulateAggregateRoot(&account.BaseAggregateRoot)
	return account
}

// FromDomain converts domain LedgerAccount to LedgerAccountModel
func (m *LedgerAccountModel) FromDomain(account *finance.LedgerAccount) {
	m.FromDomainAggregateRoot(account.BaseAggregateRoot)
	m.AssociationID = account.AssociationID
	m.Balance = account.Balance
}

// InvoiceModel is the GORM model for invoices
type InvoiceModel struct {
	AssociationAggregateModel
	HouseholdID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	GroupID           string          `gorm:"type:varchar(10);not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Penalty           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Reason            string          `gorm:"type:varchar(500);not null"`
	IssuedDate        time.Time       `gorm:"type:date;not null"`
	DueDate           time.Time       `gorm:"type:date;not null;index"`
	IsPaid            bool            `gorm:"not null;default:false;index"`
	PaidAt            *time.Time
	PaymentAcceptedBy string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts InvoiceModel to domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	invoice := &finance.Invoice{
		HouseholdID:       m.HouseholdID,
		GroupID:           m.GroupID,
		Amount:            m.Amount,
		Penalty:           m.Penalty,
		Reason:            m.Reason,
		IssuedDate:        m.IssuedDate,
		DueDate:           m.DueDate,
		IsPaid:            m.IsPaid,
		PaidAt:            m.PaidAt,
		PaymentAcceptedBy: m.PaymentAcceptedBy,
	}
	m.PopulateAssociationAggregateRoot(&invoice.AssociationAggregateRoot)
	return invoice
}

// FromDomain converts domain Invoice to InvoiceModel
func (m *InvoiceModel) FromDomain(invoice *finance.Invoice) {
	m.FromDomainAssociationAggregateRoot(invoice.AssociationAggregateRoot)
	m.HouseholdID = invoice.HouseholdID
	m.GroupID = invoice.GroupID
	m.Amount = invoice.Amount
	m.Penalty = invoice.Penalty
	m.Reason = invoice.Reason
	m.IssuedDate = invoice.IssuedDate
	m.DueDate = invoice.DueDate
	m.IsPaid = invoice.IsPaid
	m.PaidAt = invoice.PaidAt
	m.PaymentAcceptedBy = invoice.PaymentAcceptedBy
}

// FinancialTransactionModel is the GORM model for ledger transactions
type FinancialTransactionModel struct {
	AssociationAggregateModel
	Type       string          `gorm:"type:varchar(10);not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Reason     string          `gorm:"type:varchar(500);not null"`
	Date       time.Time       `gorm:"type:date;not null;index"`
	AccessedBy string          `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for FinancialTransactionModel
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts FinancialTransactionModel to domain FinancialTransaction
func (m *FinancialTransactionModel) ToDomain() *finance.FinancialTransaction {
	tx := &finance.FinancialTransaction{
		Type:       finance.TransactionType(m.Type),
		Amount:     m.Amount,
		Reason:     m.Reason,
		Date:       m.Date,
		AccessedBy: m.AccessedBy,
	}
	m.PopulateAssociationAggregateRoot(&tx.AssociationAggregateRoot)
	return tx
}

// FromDomain converts domain FinancialTransaction to FinancialTransactionModel
func (m *FinancialTransactionModel) FromDomain(tx *finance.FinancialTransaction) {
	m.FromDomainAssociationAggregateRoot(tx.AssociationAggregateRoot)
	m.Type = string(tx.Type)
	m.Amount = tx.Amount
	m.Reason = tx.Reason
	m.Date = tx.Date
	m.AccessedBy = tx.AccessedBy
}
