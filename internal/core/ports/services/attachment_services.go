package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// AttachmentSvcFacade manages confirmation attachments and their stay assignment.
type AttachmentSvcFacade interface {
	// UploadAttachment stores the file and, when an amount is given, records the derived expense.
	UploadAttachment(ctx context.Context, actor domain.Actor, in dto.UploadAttachmentInput) (*domain.ConfirmationAttachment, error)

	// ListAttachments returns attachments with stay coverage. A newly derived
	// stay map is written back to the confirmation payload.
	ListAttachments(ctx context.Context, actor domain.Actor, confirmationID string) (*dto.AttachmentsResponse, error)

	GetAttachmentURL(ctx context.Context, actor domain.Actor, attachmentID string) (*dto.SignedURLResponse, error)

	// DeleteAttachment removes the object, the row and any derived expense.
	DeleteAttachment(ctx context.Context, actor domain.Actor, attachmentID string) error
}
