package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateDefaults is used until a rate pair has been stored.
type RateDefaults struct {
	GelToUSD            decimal.Decimal
	UsdToGEL            decimal.Decimal
	ReciprocalTolerance decimal.Decimal
}

type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	defaults RateDefaults
}

// NewExchangeRateService creates the exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, defaults RateDefaults, cache ports.QueryCache) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		BaseService: BaseService{Cache: cache},
		rateRepo:    rateRepo,
		defaults:    defaults,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) EffectiveRate(ctx context.Context) (domain.ExchangeRate, bool, error) {
	rate, err := cached(ctx, s.Cache, ports.EntityExchangeRates, "latest", func(ctx context.Context) (*domain.ExchangeRate, error) {
		rate, err := s.rateRepo.FindLatestExchangeRate(ctx)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return rate, err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load exchange rate")
		return domain.ExchangeRate{}, false, fmt.Errorf("failed to load exchange rate: %w", err)
	}
	if rate == nil {
		return domain.ExchangeRate{GelToUSD: s.defaults.GelToUSD, UsdToGEL: s.defaults.UsdToGEL}, true, nil
	}
	return *rate, false, nil
}

func (s *exchangeRateService) GetCurrentRate(ctx context.Context, actor domain.Actor) (*dto.ExchangeRateResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewConfirmations); err != nil {
		return nil, err
	}
	rate, isDefault, err := s.EffectiveRate(ctx)
	if err != nil {
		return nil, err
	}
	return s.describe(rate, isDefault), nil
}

func (s *exchangeRateService) SetRate(ctx context.Context, actor domain.Actor, req dto.SetExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermSetExchangeRate); err != nil {
		return nil, err
	}
	if !req.GelToUSD.IsPositive() || !req.UsdToGEL.IsPositive() {
		return nil, fmt.Errorf("%w: both exchange rates must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ID:          uuid.NewString(),
		GelToUSD:    req.GelToUSD,
		UsdToGEL:    req.UsdToGEL,
		EffectiveAt: now,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate")
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	s.Invalidate(ctx, ports.EntityExchangeRates, ports.EntityLedger)

	resp := s.describe(rate, false)
	if !resp.Reciprocal {
		s.LogInfo(ctx, "Stored exchange rates are not reciprocal",
			slog.String("gel_to_usd", rate.GelToUSD.String()),
			slog.String("usd_to_gel", rate.UsdToGEL.String()),
			slog.String("drift_per_100_usd", resp.RoundTripDriftPer100USD.String()))
	}
	return resp, nil
}

func (s *exchangeRateService) describe(rate domain.ExchangeRate, isDefault bool) *dto.ExchangeRateResponse {
	conv := reconcile.NewConverter(rate)
	return &dto.ExchangeRateResponse{
		Rate:                    rate,
		Reciprocal:              conv.IsReciprocal(s.defaults.ReciprocalTolerance),
		RoundTripDriftPer100USD: conv.RoundTripDrift(decimal.NewFromInt(100)).Round(4),
		IsDefault:               isDefault,
	}
}
