package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// holderService manages cash boxes, bank accounts and cards.
type holderService struct {
	BaseService
	holderRepo      portsrepo.HolderRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	rateSvc         portssvc.ExchangeRateSvcFacade
	windowLimit     int
}

// NewHolderService creates a new HolderService. windowLimit caps how many
// transactions a balance computation reads.
func NewHolderService(holderRepo portsrepo.HolderRepositoryFacade, transactionRepo portsrepo.TransactionReader, rateSvc portssvc.ExchangeRateSvcFacade, windowLimit int, cache ports.QueryCache) portssvc.HolderSvcFacade {
	return &holderService{
		BaseService:     BaseService{Cache: cache},
		holderRepo:      holderRepo,
		transactionRepo: transactionRepo,
		rateSvc:         rateSvc,
		windowLimit:     windowLimit,
	}
}

var _ portssvc.HolderSvcFacade = (*holderService)(nil)

func (s *holderService) ListHolders(ctx context.Context, actor domain.Actor, includeInactive bool) ([]domain.Holder, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	holders, err := cached(ctx, s.Cache, ports.EntityHolders, map[string]bool{"includeInactive": includeInactive}, func(ctx context.Context) ([]domain.Holder, error) {
		return s.holderRepo.ListHolders(ctx, includeInactive)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list holders")
		return nil, fmt.Errorf("failed to list holders: %w", err)
	}
	return holders, nil
}

func (s *holderService) GetHolderBalances(ctx context.Context, actor domain.Actor) (*dto.HolderBalancesResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	return cached(ctx, s.Cache, ports.EntityHolders, "balances", s.computeBalances)
}

func (s *holderService) computeBalances(ctx context.Context) (*dto.HolderBalancesResponse, error) {
	holders, err := s.holderRepo.ListHolders(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list holders")
		return nil, fmt.Errorf("failed to list holders: %w", err)
	}
	txns, truncated, err := loadTransactionWindow(ctx, s.transactionRepo, s.windowLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transaction window")
		return nil, err
	}
	if truncated {
		s.LogInfo(ctx, "Holder balances computed from a truncated transaction window", slog.Int("limit", s.windowLimit))
	}
	rate, _, err := s.rateSvc.EffectiveRate(ctx)
	if err != nil {
		return nil, err
	}

	balances := reconcile.HolderBalances(holders, txns)
	return &dto.HolderBalancesResponse{
		Balances:           balances,
		CombinedBalanceUSD: reconcile.CombinedBalanceUSD(balances, reconcile.NewConverter(rate)),
		Truncated:          truncated,
	}, nil
}

// loadTransactionWindow reads at most limit transactions, newest first, and
// reports whether more exist.
func loadTransactionWindow(ctx context.Context, repo portsrepo.TransactionReader, limit int) ([]domain.Transaction, bool, error) {
	txns, err := repo.ListTransactions(ctx, domain.TransactionFilter{Limit: limit + 1})
	if err != nil {
		return nil, false, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txns) > limit {
		return txns[:limit], true, nil
	}
	return txns, false, nil
}

func (s *holderService) CreateHolder(ctx context.Context, actor domain.Actor, req dto.CreateHolderRequest) (*domain.Holder, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageHolders); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("holder name is required")
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid holder type %q", req.Type))
	}

	now := time.Now().UTC()
	holder := domain.Holder{
		ID:          uuid.NewString(),
		Name:        name,
		Type:        req.Type,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.holderRepo.SaveHolder(ctx, holder); err != nil {
		s.LogError(ctx, err, "Failed to save holder", slog.String("name", name))
		return nil, fmt.Errorf("failed to save holder: %w", err)
	}
	s.Invalidate(ctx, ports.EntityHolders, ports.EntityLedger)
	return &holder, nil
}

func (s *holderService) UpdateHolder(ctx context.Context, actor domain.Actor, holderID string, req dto.UpdateHolderRequest) (*domain.Holder, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageHolders); err != nil {
		return nil, err
	}
	holder, err := s.holderRepo.FindHolderByID(ctx, holderID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("holder name cannot be empty")
		}
		holder.Name = name
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid holder type %q", *req.Type))
		}
		holder.Type = *req.Type
	}
	if req.IsActive != nil {
		holder.IsActive = *req.IsActive
	}
	holder.Touch(actor.UserID, time.Now().UTC())

	if err := s.holderRepo.UpdateHolder(ctx, *holder); err != nil {
		s.LogError(ctx, err, "Failed to update holder", slog.String("holder_id", holderID))
		return nil, fmt.Errorf("failed to update holder: %w", err)
	}
	s.Invalidate(ctx, ports.EntityHolders, ports.EntityLedger)
	return holder, nil
}
