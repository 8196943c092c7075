package repositories

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// AttachmentReader defines read operations for confirmation attachments
type AttachmentReader interface {
	FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ConfirmationAttachment, error)

	// ListAttachmentsByConfirmation returns attachments ordered by upload time.
	ListAttachmentsByConfirmation(ctx context.Context, confirmationID string) ([]domain.ConfirmationAttachment, error)
}

// AttachmentWriter defines write operations for confirmation attachments
type AttachmentWriter interface {
	SaveAttachment(ctx context.Context, attachment domain.ConfirmationAttachment) error
	DeleteAttachment(ctx context.Context, attachmentID string) error
}

// AttachmentRepositoryFacade combines all attachment-related repository interfaces
type AttachmentRepositoryFacade interface {
	AttachmentReader
	AttachmentWriter
}
