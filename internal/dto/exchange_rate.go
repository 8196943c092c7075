package dto

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetExchangeRateRequest stores a new rate pair. The two rates are independent.
type SetExchangeRateRequest struct {
	GelToUSD decimal.Decimal `json:"gelToUsd"`
	UsdToGEL decimal.Decimal `json:"usdToGel"`
}

// ExchangeRateResponse is the current rate pair with its consistency report.
type ExchangeRateResponse struct {
	Rate domain.ExchangeRate `json:"rate"`
	// Reciprocal is false when gelToUsd*usdToGel strays from 1 beyond tolerance.
	Reciprocal bool `json:"reciprocal"`
	// RoundTripDriftPer100USD is USD->GEL->USD of 100 USD minus 100.
	RoundTripDriftPer100USD decimal.Decimal `json:"roundTripDriftPer100USD"`
	// IsDefault marks a rate taken from configuration because none is stored.
	IsDefault bool `json:"isDefault"`
}
