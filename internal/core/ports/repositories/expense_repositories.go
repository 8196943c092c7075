package repositories

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses returns expenses, optionally narrowed to a set of confirmations (nil means all).
	ListExpenses(ctx context.Context, confirmationIDs []string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// DeleteExpensesByAttachment removes expenses derived from an attachment.
	DeleteExpensesByAttachment(ctx context.Context, attachmentID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
