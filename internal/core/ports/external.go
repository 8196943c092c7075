// Package ports holds the contracts the core expects from outside collaborators
// that are not the relational store: object storage, the query cache, the job
// queue and the e-mail function.
package ports

import (
	"context"
	"io"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ObjectStorage stores confirmation attachments.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// QueryCache serves read models keyed by entity and filter parameters.
// FetchJSON fills dest from the cache or, on a miss, from loader; concurrent
// identical fetches share one loader call.
type QueryCache interface {
	FetchJSON(ctx context.Context, entity string, params any, dest any, loader func(ctx context.Context) (any, error)) error

	// Invalidate drops every cached read of the given entities.
	Invalidate(ctx context.Context, entities ...string) error
}

// Cache entity names. Mutations invalidate every entity whose reads they affect.
const (
	EntityConfirmations = "confirmations"
	EntityTransactions  = "transactions"
	EntityExpenses      = "expenses"
	EntityHolders       = "holders"
	EntityExchangeRates = "exchange_rates"
	EntityLedger        = "ledger"
)

// AttemptTracker remembers which recurring costs generation was already attempted for.
type AttemptTracker interface {
	// MarkAttempt records an attempt and reports whether this call was the first one.
	MarkAttempt(ctx context.Context, confirmationID string, category domain.Category) (bool, error)

	// Release forgets an attempt so a failed insert can be retried.
	Release(ctx context.Context, confirmationID string, category domain.Category) error
}

// JobEnqueuer hands work to the background worker.
type JobEnqueuer interface {
	EnqueueBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error
	EnqueueRecurringExpenses(ctx context.Context, arrival domain.DateRange) error
}

// EmailSender invokes the external booking e-mail function.
type EmailSender interface {
	SendBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error
}
