package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// FinanceSvcFacade exposes the reconciliation engine.
type FinanceSvcFacade interface {
	// GetLedger reconciles confirmations in the arrival range against the ledger.
	GetLedger(ctx context.Context, actor domain.Actor, params dto.LedgerParams) (*dto.LedgerResponse, error)

	// GenerateRecurringExpenses materialises meals and driver costs for
	// confirmations in the arrival range. Repeated runs insert nothing new.
	GenerateRecurringExpenses(ctx context.Context, actor domain.Actor, arrival domain.DateRange) (*dto.GenerateRecurringResponse, error)

	// CurrentConverter returns the converter built from the effective rate.
	CurrentConverter(ctx context.Context) (reconcile.Converter, domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade reads and stores the USD/GEL rate pair.
type ExchangeRateSvcFacade interface {
	GetCurrentRate(ctx context.Context, actor domain.Actor) (*dto.ExchangeRateResponse, error)
	SetRate(ctx context.Context, actor domain.Actor, req dto.SetExchangeRateRequest) (*dto.ExchangeRateResponse, error)

	// EffectiveRate returns the stored rate or the configured default.
	EffectiveRate(ctx context.Context) (domain.ExchangeRate, bool, error)
}
