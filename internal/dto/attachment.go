package dto

import (
	"io"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/shopspring/decimal"
)

// UploadAttachmentInput is a parsed multipart upload.
type UploadAttachmentInput struct {
	ConfirmationID   string
	Kind             domain.AttachmentKind
	FileName         string
	ContentType      string
	Size             int64
	StayKey          string
	OriginalAmount   *decimal.Decimal
	OriginalCurrency *domain.Currency
	Body             io.Reader
}

// AttachmentsResponse lists a confirmation's attachments with their stay assignment.
type AttachmentsResponse struct {
	Attachments []domain.ConfirmationAttachment `json:"attachments"`
	Stays       []reconcile.StayCoverage        `json:"stays"`
	StayMap     map[string]string               `json:"stayMap"`
	Unmatched   []string                        `json:"unmatched"`
}

// SignedURLResponse carries a temporary download link.
type SignedURLResponse struct {
	URL string `json:"url"`
}
