package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns transactions matching the filter, newest first.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// ListTransactionsByConfirmations returns every transaction linked to any of the confirmations.
	ListTransactionsByConfirmations(ctx context.Context, confirmationIDs []string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// SaveTransaction inserts a manually entered transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveAutoGeneratedTransactions bulk inserts derived transactions, silently
	// skipping any (confirmation, category) pair that already has one. It returns
	// the number of rows actually inserted.
	SaveAutoGeneratedTransactions(ctx context.Context, txns []domain.Transaction) (int, error)

	// UpdateTransactionStatus confirms or unconfirms a transaction, recording the responsible holder.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, responsibleHolderID *string, userID string, now time.Time) error

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
