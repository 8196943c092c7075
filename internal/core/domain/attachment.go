package domain

import (
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AttachmentKind distinguishes hotel invoices from payment orders.
type AttachmentKind string

const (
	AttachmentInvoice      AttachmentKind = "invoice"
	AttachmentPaymentOrder AttachmentKind = "payment_order"
)

// IsValid reports whether the kind is known.
func (k AttachmentKind) IsValid() bool {
	return k == AttachmentInvoice || k == AttachmentPaymentOrder
}

// ConfirmationAttachment is an uploaded PDF linked to a confirmation and possibly a stay.
type ConfirmationAttachment struct {
	ID               string           `json:"id"`
	ConfirmationID   string           `json:"confirmationId"`
	Kind             AttachmentKind   `json:"kind"`
	FileName         string           `json:"fileName"`
	StoragePath      string           `json:"storagePath"`
	ContentType      string           `json:"contentType"`
	SizeBytes        int64            `json:"sizeBytes"`
	StayKey          *string          `json:"stayKey,omitempty"` // chosen at upload time
	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency *Currency        `json:"originalCurrency,omitempty"`
	UploadedAt       time.Time        `json:"uploadedAt"`
	UploadedBy       string           `json:"uploadedBy"`
}

const (
	attachmentRoot   = "confirmations"
	attachmentStays  = "stays"
	unsafePathRunes  = "/\\?%*:|\"<>"
	maxFileNameRunes = 120
)

// AttachmentPath builds the storage key for an upload:
// confirmations/{id}/stays/{stayKey}/{objectID}-{file} when a stay is known,
// confirmations/{id}/{objectID}-{file} otherwise.
func AttachmentPath(confirmationID, stayKey, objectID, fileName string) string {
	name := objectID + "-" + SanitizeFileName(fileName)
	if stayKey != "" {
		return path.Join(attachmentRoot, confirmationID, attachmentStays, stayKey, name)
	}
	return path.Join(attachmentRoot, confirmationID, name)
}

// StayKeyFromPath extracts the stay key encoded in a storage path, if any.
func StayKeyFromPath(storagePath string) (string, bool) {
	parts := strings.Split(strings.Trim(storagePath, "/"), "/")
	// confirmations/{id}/stays/{key}/{file}
	if len(parts) == 5 && parts[0] == attachmentRoot && parts[2] == attachmentStays && parts[3] != "" {
		return parts[3], true
	}
	return "", false
}

// SanitizeFileName strips path separators and characters storage backends reject.
func SanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	count := 0
	for _, r := range base {
		if count >= maxFileNameRunes {
			break
		}
		switch {
		case strings.ContainsRune(unsafePathRunes, r):
			b.WriteRune('_')
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
		count++
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "file.pdf"
	}
	return out
}
