package dto

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/shopspring/decimal"
)

// LedgerParams selects the confirmations a ledger view covers, by arrival date.
type LedgerParams struct {
	DateRangeParams
}

// LedgerResponse is the reconciled finance view.
type LedgerResponse struct {
	Rows               []reconcile.Row        `json:"rows"`
	Summary            reconcile.Summary      `json:"summary"`
	Balances           []domain.HolderBalance `json:"balances"`
	CombinedBalanceUSD decimal.Decimal        `json:"combinedBalanceUSD"`
	Rate               domain.ExchangeRate    `json:"rate"`
	// Truncated is set when the transaction window hit its cap, so balances may be incomplete.
	Truncated bool `json:"truncated"`
}

// GenerateRecurringRequest triggers recurring-expense generation for an arrival range.
type GenerateRecurringRequest struct {
	DateRangeParams
}

// GenerateRecurringResponse reports what a generation run did.
type GenerateRecurringResponse struct {
	Planned  int `json:"planned"`
	Inserted int `json:"inserted"`
}

// HolderBalancesResponse lists derived holder positions.
type HolderBalancesResponse struct {
	Balances           []domain.HolderBalance `json:"balances"`
	CombinedBalanceUSD decimal.Decimal        `json:"combinedBalanceUSD"`
	Truncated          bool                   `json:"truncated"`
}
