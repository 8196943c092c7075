package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions using token-based pagination.
	ListTransactions(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for ledger transactions
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	ConfirmTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.ConfirmTransactionRequest) (*domain.Transaction, error)
	UnconfirmTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error)

	// DeleteTransaction removes a manually entered transaction. Auto-generated
	// entries cannot be deleted.
	DeleteTransaction(ctx context.Context, actor domain.Actor, transactionID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// ExpenseSvcFacade manages standalone expenses.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, actor domain.Actor, params dto.ListExpensesParams) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error
}
