package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate holds the two cross rates. They are stored independently and are
// not guaranteed to be reciprocal.
type ExchangeRate struct {
	ID          string          `json:"id"`
	GelToUSD    decimal.Decimal `json:"gelToUsd"`
	UsdToGEL    decimal.Decimal `json:"usdToGel"`
	EffectiveAt time.Time       `json:"effectiveAt"`
	AuditFields
}
