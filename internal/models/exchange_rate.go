package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores both cross rates effective from a point in time.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	GelToUSD       decimal.Decimal `db:"gel_to_usd"`
	UsdToGEL       decimal.Decimal `db:"usd_to_gel"`
	EffectiveAt    time.Time       `db:"effective_at"`
	AuditFields
}
