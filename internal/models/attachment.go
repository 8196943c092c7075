package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmationAttachment is a row of the confirmation_attachments table.
type ConfirmationAttachment struct {
	AttachmentID     string              `db:"attachment_id"`
	ConfirmationID   string              `db:"confirmation_id"`
	Kind             string              `db:"kind"`
	FileName         string              `db:"file_name"`
	StoragePath      string              `db:"storage_path"`
	ContentType      string              `db:"content_type"`
	SizeBytes        int64               `db:"size_bytes"`
	StayKey          *string             `db:"stay_key"`
	OriginalAmount   decimal.NullDecimal `db:"original_amount"`
	OriginalCurrency *string             `db:"original_currency"`
	UploadedAt       time.Time           `db:"uploaded_at"`
	UploadedBy       string              `db:"uploaded_by"`
}
