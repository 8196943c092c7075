package repositories

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindLatestExchangeRate returns the most recently effective rate pair.
	FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
