package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// ConfirmationReaderSvc defines read operations for confirmations
type ConfirmationReaderSvc interface {
	// ListConfirmations returns confirmations in the arrival range, newest arrival last.
	ListConfirmations(ctx context.Context, actor domain.Actor, params dto.ListConfirmationsParams) ([]domain.Confirmation, error)

	// GetConfirmation retrieves one confirmation.
	GetConfirmation(ctx context.Context, actor domain.Actor, confirmationID string) (*domain.Confirmation, error)
}

// ConfirmationWriterSvc defines write operations for confirmations
type ConfirmationWriterSvc interface {
	UpdateNotes(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdateNotesRequest) (*domain.Confirmation, error)
	UpdatePayload(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdatePayloadRequest) (*domain.Confirmation, error)

	// ToggleClientPaid sets the client-paid flag and keeps the linked tour_payment
	// income transaction in step: created confirmed when missing, confirmed when
	// the flag is set, moved back to pending when it is cleared.
	ToggleClientPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleClientPaidRequest) (*dto.ClientPaidResponse, error)

	// ToggleHotelsPaid sets the hotels-paid flag.
	ToggleHotelsPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleHotelsPaidRequest) (*domain.Confirmation, error)
}

// ConfirmationSvcFacade combines all confirmation-related service interfaces
type ConfirmationSvcFacade interface {
	ConfirmationReaderSvc
	ConfirmationWriterSvc
}
