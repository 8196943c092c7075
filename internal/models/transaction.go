package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID       string              `db:"transaction_id"`
	TxnDate             time.Time           `db:"txn_date"`
	Kind                string              `db:"kind"`
	TxnType             string              `db:"txn_type"`
	Category            string              `db:"category"`
	Description         string              `db:"description"`
	Amount              decimal.Decimal     `db:"amount"`
	Currency            string              `db:"currency"`
	ToAmount            decimal.NullDecimal `db:"to_amount"`
	ToCurrency          *string             `db:"to_currency"`
	Status              string              `db:"status"`
	ConfirmationID      *string             `db:"confirmation_id"`
	HolderID            *string             `db:"holder_id"`
	FromHolderID        *string             `db:"from_holder_id"`
	ToHolderID          *string             `db:"to_holder_id"`
	ResponsibleHolderID *string             `db:"responsible_holder_id"`
	IsAutoGenerated     bool                `db:"is_auto_generated"`
	PaymentMethod       string              `db:"payment_method"`
	Notes               string              `db:"notes"`
	ConfirmedAt         *time.Time          `db:"confirmed_at"`
	ConfirmedBy         *string             `db:"confirmed_by"`
	AuditFields
}

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID      string          `db:"expense_id"`
	ExpenseType    string          `db:"expense_type"`
	Description    string          `db:"description"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	ExpenseDate    time.Time       `db:"expense_date"`
	ConfirmationID *string         `db:"confirmation_id"`
	AttachmentID   *string         `db:"attachment_id"`
	AuditFields
}

// Holder is a row of the holders table.
type Holder struct {
	HolderID   string `db:"holder_id"`
	Name       string `db:"name"`
	HolderType string `db:"holder_type"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
