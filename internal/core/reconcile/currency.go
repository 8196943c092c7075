// Package reconcile derives finance views from confirmations, transactions and
// expenses. Every function here is pure: callers load the data, the engine
// combines it.
package reconcile

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Converter converts between USD and GEL using the two stored cross rates.
// The rates are applied as stored; USD->GEL->USD need not return the input.
type Converter struct {
	gelToUSD decimal.Decimal
	usdToGEL decimal.Decimal
}

// NewConverter builds a converter from an exchange rate record.
func NewConverter(rate domain.ExchangeRate) Converter {
	return Converter{gelToUSD: rate.GelToUSD, usdToGEL: rate.UsdToGEL}
}

// Convert moves an amount from one currency to another.
func (c Converter) Convert(amount decimal.Decimal, from, to domain.Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	switch {
	case from == domain.CurrencyGEL && to == domain.CurrencyUSD:
		return amount.Mul(c.gelToUSD)
	case from == domain.CurrencyUSD && to == domain.CurrencyGEL:
		return amount.Mul(c.usdToGEL)
	}
	return amount
}

// ToUSD converts an amount into USD.
func (c Converter) ToUSD(amount decimal.Decimal, from domain.Currency) decimal.Decimal {
	return c.Convert(amount, from, domain.CurrencyUSD)
}

// ToGEL converts an amount into GEL.
func (c Converter) ToGEL(amount decimal.Decimal, from domain.Currency) decimal.Decimal {
	return c.Convert(amount, from, domain.CurrencyGEL)
}

// RoundTripDrift is USD->GEL->USD minus the original amount. It is zero only
// when the stored rates are exact reciprocals.
func (c Converter) RoundTripDrift(amountUSD decimal.Decimal) decimal.Decimal {
	back := c.ToUSD(c.ToGEL(amountUSD, domain.CurrencyUSD), domain.CurrencyGEL)
	return back.Sub(amountUSD)
}

// IsReciprocal reports whether gelToUSD*usdToGEL is within tolerance of 1.
func (c Converter) IsReciprocal(tolerance decimal.Decimal) bool {
	product := c.gelToUSD.Mul(c.usdToGEL)
	return product.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(tolerance)
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
