package dto

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense.
type CreateExpenseRequest struct {
	Type           string          `json:"type" binding:"required,max=50"`
	Description    string          `json:"description" binding:"max=500"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       domain.Currency `json:"currency" binding:"required"`
	Date           string          `json:"date" binding:"required"`
	ConfirmationID *string         `json:"confirmationId"`
}

// ListExpensesParams narrows an expense listing.
type ListExpensesParams struct {
	ConfirmationID string `form:"confirmationId"`
}
