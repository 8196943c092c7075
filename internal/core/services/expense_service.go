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
	"github.com/SscSPs/tour_ledger/internal/dto"
)

type expenseService struct {
	BaseService
	expenseRepo      portsrepo.ExpenseRepositoryFacade
	confirmationRepo portsrepo.ConfirmationReader
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, confirmationRepo portsrepo.ConfirmationReader, cache ports.QueryCache) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService:      BaseService{Cache: cache},
		expenseRepo:      expenseRepo,
		confirmationRepo: confirmationRepo,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if !req.Currency.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported currency %q", req.Currency))
	}
	date, ok := domain.ParseDate(req.Date)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid date %q", req.Date))
	}
	confirmationID := nonBlank(req.ConfirmationID)
	if confirmationID != nil {
		if _, err := s.confirmationRepo.FindConfirmationByID(ctx, *confirmationID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ID:             uuid.NewString(),
		Type:           strings.TrimSpace(req.Type),
		Description:    strings.TrimSpace(req.Description),
		Amount:         req.Amount,
		Currency:       req.Currency,
		Date:           date,
		ConfirmationID: confirmationID,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("type", expense.Type))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	s.Invalidate(ctx, ports.EntityExpenses, ports.EntityLedger)
	return &expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, actor domain.Actor, params dto.ListExpensesParams) ([]domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	var ids []string
	if id := strings.TrimSpace(params.ConfirmationID); id != "" {
		ids = []string{id}
	}
	expenses, err := cached(ctx, s.Cache, ports.EntityExpenses, ids, func(ctx context.Context) ([]domain.Expense, error) {
		return s.expenseRepo.ListExpenses(ctx, ids)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes a manually recorded expense. Invoice-derived expenses
// go away with their attachment.
func (s *expenseService) DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return err
	}
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.AttachmentID != nil {
		return apperrors.NewConflictError("expense was derived from an attachment; delete the attachment instead")
	}
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.Invalidate(ctx, ports.EntityExpenses, ports.EntityLedger)
	return nil
}
