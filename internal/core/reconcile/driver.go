package reconcile

import (
	"strings"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DriverPolicy prices the driver per tour day, in USD.
type DriverPolicy struct {
	DailyRate   decimal.Decimal
	RatesByType map[string]decimal.Decimal
}

// Days is the billable day count: total_days when captured, else itinerary length.
func (p DriverPolicy) Days(c domain.Confirmation) int {
	if c.TotalDays > 0 {
		return c.TotalDays
	}
	return len(c.Payload.Itinerary)
}

// RateFor returns the daily rate for a driver type. Unknown types use DailyRate.
func (p DriverPolicy) RateFor(driverType string) decimal.Decimal {
	key := strings.ToLower(strings.TrimSpace(driverType))
	if key == domain.DriverTypeNone {
		return decimal.Zero
	}
	if rate, ok := p.RatesByType[key]; ok {
		return rate
	}
	return p.DailyRate
}

// Fee is days x rate.
func (p DriverPolicy) Fee(c domain.Confirmation) decimal.Decimal {
	days := p.Days(c)
	if days <= 0 {
		return decimal.Zero
	}
	return p.RateFor(c.Payload.DriverType).Mul(decimal.NewFromInt(int64(days)))
}
