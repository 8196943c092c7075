package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// financeService assembles the reconciled ledger and materialises recurring costs.
type financeService struct {
	BaseService
	confirmationRepo portsrepo.ConfirmationReader
	transactionRepo  portsrepo.TransactionRepositoryFacade
	expenseRepo      portsrepo.ExpenseReader
	holderRepo       portsrepo.HolderReader
	rateSvc          portssvc.ExchangeRateSvcFacade
	attempts         ports.AttemptTracker
	policy           reconcile.Policy
	windowLimit      int
	now              func() time.Time
}

// FinanceDeps groups the collaborators of the finance service.
type FinanceDeps struct {
	ConfirmationRepo portsrepo.ConfirmationReader
	TransactionRepo  portsrepo.TransactionRepositoryFacade
	ExpenseRepo      portsrepo.ExpenseReader
	HolderRepo       portsrepo.HolderReader
	RateSvc          portssvc.ExchangeRateSvcFacade
	// Attempts is optional; without it only the store guards against duplicates.
	Attempts    ports.AttemptTracker
	Cache       ports.QueryCache
	Policy      reconcile.Policy
	WindowLimit int
}

// FinanceOption configures the finance service.
type FinanceOption func(*financeService)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) FinanceOption {
	return func(s *financeService) {
		s.now = now
	}
}

// NewFinanceService creates the finance service.
func NewFinanceService(deps FinanceDeps, options ...FinanceOption) portssvc.FinanceSvcFacade {
	svc := &financeService{
		BaseService:      BaseService{Cache: deps.Cache},
		confirmationRepo: deps.ConfirmationRepo,
		transactionRepo:  deps.TransactionRepo,
		expenseRepo:      deps.ExpenseRepo,
		holderRepo:       deps.HolderRepo,
		rateSvc:          deps.RateSvc,
		attempts:         deps.Attempts,
		policy:           deps.Policy,
		windowLimit:      deps.WindowLimit,
		now:              func() time.Time { return time.Now().UTC() },
	}
	if svc.windowLimit <= 0 {
		svc.windowLimit = 20000
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func (s *financeService) CurrentConverter(ctx context.Context) (reconcile.Converter, domain.ExchangeRate, error) {
	rate, _, err := s.rateSvc.EffectiveRate(ctx)
	if err != nil {
		return reconcile.Converter{}, domain.ExchangeRate{}, err
	}
	return reconcile.NewConverter(rate), rate, nil
}

func (s *financeService) GetLedger(ctx context.Context, actor domain.Actor, params dto.LedgerParams) (*dto.LedgerResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	arrival, err := params.ToDateRange()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return cached(ctx, s.Cache, ports.EntityLedger, params, func(ctx context.Context) (*dto.LedgerResponse, error) {
		return s.buildLedger(ctx, arrival)
	})
}

// ledgerSnapshot is the data one ledger view is computed from.
type ledgerSnapshot struct {
	confirmations []domain.Confirmation
	linked        []domain.Transaction
	window        []domain.Transaction
	expenses      []domain.Expense
	holders       []domain.Holder
	rate          domain.ExchangeRate
	truncated     bool
}

// loadSnapshot reads everything independent in parallel, then the rows that
// depend on the confirmation ids.
func (s *financeService) loadSnapshot(ctx context.Context, arrival domain.DateRange) (*ledgerSnapshot, error) {
	snap := &ledgerSnapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.confirmations, err = s.confirmationRepo.ListConfirmations(gctx, domain.ConfirmationFilter{Arrival: arrival})
		if err != nil {
			return fmt.Errorf("failed to list confirmations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.rate, _, err = s.rateSvc.EffectiveRate(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.holders, err = s.holderRepo.ListHolders(gctx, false)
		if err != nil {
			return fmt.Errorf("failed to list holders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.window, snap.truncated, err = loadTransactionWindow(gctx, s.transactionRepo, s.windowLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := confirmationIDs(snap.confirmations)
	if len(ids) == 0 {
		return snap, nil
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.linked, err = s.transactionRepo.ListTransactionsByConfirmations(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load linked transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.expenses, err = s.expenseRepo.ListExpenses(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *financeService) buildLedger(ctx context.Context, arrival domain.DateRange) (*dto.LedgerResponse, error) {
	snap, err := s.loadSnapshot(ctx, arrival)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger snapshot")
		return nil, err
	}
	if snap.truncated {
		s.LogInfo(ctx, "Ledger balances computed from a truncated transaction window", slog.Int("limit", s.windowLimit))
	}

	conv := reconcile.NewConverter(snap.rate)
	rows := reconcile.BuildRows(reconcile.RowsInput{
		Confirmations: snap.confirmations,
		Transactions:  snap.linked,
		Expenses:      snap.expenses,
		Arrival:       arrival,
		Converter:     conv,
		Today:         domain.DateOnly(s.now()),
	}, s.policy)
	balances := reconcile.HolderBalances(snap.holders, snap.window)

	return &dto.LedgerResponse{
		Rows:               rows,
		Summary:            reconcile.Summarize(rows),
		Balances:           balances,
		CombinedBalanceUSD: reconcile.CombinedBalanceUSD(balances, conv),
		Rate:               snap.rate,
		Truncated:          snap.truncated,
	}, nil
}

// GenerateRecurringExpenses inserts the meals and driver costs still missing in
// the arrival range. The attempt tracker keeps concurrent runs from planning the
// same cost twice; the store's unique index is the final guard.
func (s *financeService) GenerateRecurringExpenses(ctx context.Context, actor domain.Actor, arrival domain.DateRange) (*dto.GenerateRecurringResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermRunAutoGeneration); err != nil {
		return nil, err
	}

	confirmations, err := s.confirmationRepo.ListConfirmations(ctx, domain.ConfirmationFilter{Arrival: arrival})
	if err != nil {
		s.LogError(ctx, err, "Failed to list confirmations for generation")
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	ids := confirmationIDs(confirmations)
	if len(ids) == 0 {
		return &dto.GenerateRecurringResponse{}, nil
	}
	linked, err := s.transactionRepo.ListTransactionsByConfirmations(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load linked transactions for generation")
		return nil, fmt.Errorf("failed to load linked transactions: %w", err)
	}

	planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
		Confirmations: confirmations,
		Transactions:  linked,
		Arrival:       arrival,
		Attempted:     s.attemptChecker(ctx),
		Now:           s.now(),
		UserID:        actor.UserID,
	}, s.policy)
	if len(planned) == 0 {
		return &dto.GenerateRecurringResponse{}, nil
	}

	inserted, err := s.transactionRepo.SaveAutoGeneratedTransactions(ctx, planned)
	if err != nil {
		s.releaseAttempts(ctx, planned)
		s.LogError(ctx, err, "Failed to save recurring expenses", slog.Int("planned", len(planned)))
		return nil, fmt.Errorf("failed to save recurring expenses: %w", err)
	}
	if inserted > 0 {
		s.Invalidate(ctx, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)
	}

	s.LogInfo(ctx, "Recurring expenses generated",
		slog.Int("planned", len(planned)),
		slog.Int("inserted", inserted))
	return &dto.GenerateRecurringResponse{Planned: len(planned), Inserted: inserted}, nil
}

// attemptChecker claims each (confirmation, category) pair in the tracker. A
// pair already claimed by another run counts as attempted. Tracker failures
// fall through to the store's uniqueness guard.
func (s *financeService) attemptChecker(ctx context.Context) reconcile.AttemptChecker {
	if s.attempts == nil {
		return nil
	}
	return func(confirmationID string, category domain.Category) bool {
		first, err := s.attempts.MarkAttempt(ctx, confirmationID, category)
		if err != nil {
			s.LogError(ctx, err, "Failed to record generation attempt",
				slog.String("confirmation_id", confirmationID),
				slog.String("category", string(category)))
			return false
		}
		return !first
	}
}

func (s *financeService) releaseAttempts(ctx context.Context, planned []domain.Transaction) {
	if s.attempts == nil {
		return
	}
	for _, t := range planned {
		if t.ConfirmationID == nil {
			continue
		}
		if err := s.attempts.Release(ctx, *t.ConfirmationID, t.Category); err != nil {
			s.LogError(ctx, err, "Failed to release generation attempt", slog.String("confirmation_id", *t.ConfirmationID))
		}
	}
}

func confirmationIDs(confirmations []domain.Confirmation) []string {
	ids := make([]string, 0, len(confirmations))
	for _, c := range confirmations {
		ids = append(ids, c.ID)
	}
	return ids
}
