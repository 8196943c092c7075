package mapping

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelAttachment converts a domain ConfirmationAttachment to its row form
func ToModelAttachment(d domain.ConfirmationAttachment) models.ConfirmationAttachment {
	m := models.ConfirmationAttachment{
		AttachmentID:   d.ID,
		ConfirmationID: d.ConfirmationID,
		Kind:           string(d.Kind),
		FileName:       d.FileName,
		StoragePath:    d.StoragePath,
		ContentType:    d.ContentType,
		SizeBytes:      d.SizeBytes,
		StayKey:        d.StayKey,
		UploadedAt:     d.UploadedAt,
		UploadedBy:     d.UploadedBy,
	}
	if d.OriginalAmount != nil {
		m.OriginalAmount = decimal.NewNullDecimal(*d.OriginalAmount)
	}
	if d.OriginalCurrency != nil {
		c := string(*d.OriginalCurrency)
		m.OriginalCurrency = &c
	}
	return m
}

// ToDomainAttachment converts an attachment row to a domain ConfirmationAttachment
func ToDomainAttachment(m models.ConfirmationAttachment) domain.ConfirmationAttachment {
	d := domain.ConfirmationAttachment{
		ID:             m.AttachmentID,
		ConfirmationID: m.ConfirmationID,
		Kind:           domain.AttachmentKind(m.Kind),
		FileName:       m.FileName,
		StoragePath:    m.StoragePath,
		ContentType:    m.ContentType,
		SizeBytes:      m.SizeBytes,
		StayKey:        m.StayKey,
		UploadedAt:     m.UploadedAt,
		UploadedBy:     m.UploadedBy,
	}
	if m.OriginalAmount.Valid {
		amount := m.OriginalAmount.Decimal
		d.OriginalAmount = &amount
	}
	if m.OriginalCurrency != nil {
		c := domain.Currency(*m.OriginalCurrency)
		d.OriginalCurrency = &c
	}
	return d
}
