package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ConfirmationReader defines read operations for confirmation data
type ConfirmationReader interface {
	// FindConfirmationByID retrieves a confirmation by its unique identifier.
	FindConfirmationByID(ctx context.Context, confirmationID string) (*domain.Confirmation, error)

	// FindConfirmationByCode retrieves a confirmation by its business code.
	FindConfirmationByCode(ctx context.Context, code string) (*domain.Confirmation, error)

	// ListConfirmations returns confirmations matching the filter, ordered by arrival.
	// Confirmations whose arrival date could not be normalised are excluded when the
	// arrival range is active.
	ListConfirmations(ctx context.Context, filter domain.ConfirmationFilter) ([]domain.Confirmation, error)

	// CountConfirmationCodesWithPrefix counts codes starting with prefix (used for YYMMDD-NN numbering).
	CountConfirmationCodesWithPrefix(ctx context.Context, prefix string) (int, error)
}

// ConfirmationWriter defines write operations for confirmation data
type ConfirmationWriter interface {
	// SaveConfirmation inserts a new confirmation. A clashing code yields apperrors.ErrDuplicate.
	SaveConfirmation(ctx context.Context, confirmation domain.Confirmation) error

	// UpsertConfirmationByCode inserts or updates by confirmation code. Payment flags are never overwritten.
	UpsertConfirmationByCode(ctx context.Context, confirmation domain.Confirmation) (created bool, err error)

	// UpdateConfirmationNotes replaces the free-text notes.
	UpdateConfirmationNotes(ctx context.Context, confirmationID, notes, userID string, now time.Time) error

	// UpdateConfirmationPayload replaces the itinerary document.
	UpdateConfirmationPayload(ctx context.Context, confirmationID string, payload domain.Payload, userID string, now time.Time) error

	// SetHotelsPaid flips the hotels-paid flag.
	SetHotelsPaid(ctx context.Context, confirmationID string, paid bool, paidAt *time.Time, userID string, now time.Time) error

	// ApplyClientPayment writes the client-paid flag and the linked income
	// transaction change in one database transaction and returns the income
	// transaction as it stands afterwards.
	ApplyClientPayment(ctx context.Context, change domain.ClientPaymentChange) (*domain.Transaction, error)
}

// ConfirmationRepositoryFacade combines all confirmation-related repository interfaces
type ConfirmationRepositoryFacade interface {
	ConfirmationReader
	ConfirmationWriter
}
