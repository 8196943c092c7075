package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a standalone cost record, typically derived from an uploaded hotel invoice.
type Expense struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	Date           time.Time       `json:"date"`
	ConfirmationID *string         `json:"confirmationId,omitempty"`
	AttachmentID   *string         `json:"attachmentId,omitempty"`
	AuditFields
}

// ExpenseTypeHotelInvoice marks expenses derived from an invoice attachment.
const ExpenseTypeHotelInvoice = "hotel_invoice"
