package domain

import "fmt"

// Currency is one of the two currencies the ledger books in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGEL Currency = "GEL"
)

// IsValid reports whether the currency is supported.
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencyGEL
}

// ParseCurrency normalises and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(code)
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}
