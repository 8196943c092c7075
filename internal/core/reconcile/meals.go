package reconcile

import (
	"strings"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// MealsPolicy prices breakfasts at hotels that include meals.
type MealsPolicy struct {
	// Hotels is the allow-list, matched as case-insensitive substrings of the itinerary hotel.
	Hotels []string
	// RatePer2Adults is charged per night for every started pair of adults, in GEL.
	RatePer2Adults decimal.Decimal
}

// fold lower-cases for caseless comparison. A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// IsMealsHotel reports whether the hotel name matches an allow-list entry.
func (p MealsPolicy) IsMealsHotel(hotel string) bool {
	name := fold(hotel)
	if name == "" {
		return false
	}
	for _, h := range p.Hotels {
		entry := fold(h)
		if entry != "" && strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

// Nights counts itinerary nights spent at meals hotels.
func (p MealsPolicy) Nights(payload domain.Payload) int {
	nights := 0
	for _, day := range payload.Itinerary {
		if p.IsMealsHotel(day.Hotel) {
			nights++
		}
	}
	return nights
}

// Expense is ceil(adults/2) * RatePer2Adults * nights, in GEL.
func (p MealsPolicy) Expense(payload domain.Payload) decimal.Decimal {
	nights := p.Nights(payload)
	if nights == 0 {
		return decimal.Zero
	}
	pairs := (payload.Guests.AdultsOrDefault() + 1) / 2
	return p.RatePer2Adults.Mul(decimal.NewFromInt(int64(pairs * nights)))
}
