package dto

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger entry.
type CreateTransactionRequest struct {
	Date                string                   `json:"date" binding:"required"`
	Kind                domain.TransactionKind   `json:"kind" binding:"required,oneof=in out transfer exchange"`
	Category            domain.Category          `json:"category" binding:"required"`
	CustomCategory      string                   `json:"customCategory"`
	Description         string                   `json:"description" binding:"max=500"`
	Amount              decimal.Decimal          `json:"amount"`
	Currency            domain.Currency          `json:"currency" binding:"required"`
	ToAmount            *decimal.Decimal         `json:"toAmount"`
	ToCurrency          *domain.Currency         `json:"toCurrency"`
	Status              domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending confirmed"`
	ConfirmationID      *string                  `json:"confirmationId"`
	HolderID            *string                  `json:"holderId"`
	FromHolderID        *string                  `json:"fromHolderId"`
	ToHolderID          *string                  `json:"toHolderId"`
	ResponsibleHolderID *string                  `json:"responsibleHolderId"`
	PaymentMethod       string                   `json:"paymentMethod"`
	Notes               string                   `json:"notes"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	DateRangeParams
	ConfirmationID string `form:"confirmationId"`
	HolderID       string `form:"holderId"`
	Kind           string `form:"kind" binding:"omitempty,oneof=in out transfer exchange"`
	Status         string `form:"status" binding:"omitempty,oneof=pending confirmed"`
	Category       string `form:"category"`
	Limit          int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken      string `form:"nextToken"`
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// ConfirmTransactionRequest confirms a pending transaction.
type ConfirmTransactionRequest struct {
	ResponsibleHolderID *string `json:"responsibleHolderId"`
}
