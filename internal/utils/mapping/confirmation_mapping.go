package mapping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/models"
)

// ToModelConfirmation converts a domain Confirmation to a model Confirmation,
// normalising the raw dates into their DATE columns.
func ToModelConfirmation(d domain.Confirmation) (models.Confirmation, error) {
	payload, err := json.Marshal(d.Payload)
	if err != nil {
		return models.Confirmation{}, fmt.Errorf("failed to encode payload: %w", err)
	}
	m := models.Confirmation{
		ConfirmationID:   d.ID,
		ConfirmationCode: d.ConfirmationCode,
		MainClientName:   d.MainClientName,
		ArrivalDate:      d.ArrivalDate,
		DepartureDate:    d.DepartureDate,
		TotalDays:        d.TotalDays,
		Price:            d.Price,
		ClientPaid:       d.ClientPaid,
		ClientPaidAt:     d.ClientPaidAt,
		IsPaid:           d.IsPaid,
		PaidAt:           d.PaidAt,
		Notes:            d.Notes,
		Payload:          payload,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	m.ArrivalOn = parsedOrNil(d.ArrivalDate)
	m.DepartureOn = parsedOrNil(d.DepartureDate)
	return m, nil
}

func parsedOrNil(raw string) *time.Time {
	t, ok := domain.ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}

// ToDomainConfirmation converts a model Confirmation to a domain Confirmation.
// A payload that fails to decode is replaced by an empty one and the
// confirmation is flagged as quarantined; the decode error is returned alongside
// so the caller can report it.
func ToDomainConfirmation(m models.Confirmation) (domain.Confirmation, error) {
	d := domain.Confirmation{
		ID:               m.ConfirmationID,
		ConfirmationCode: m.ConfirmationCode,
		MainClientName:   m.MainClientName,
		ArrivalDate:      m.ArrivalDate,
		DepartureDate:    m.DepartureDate,
		TotalDays:        m.TotalDays,
		Price:            m.Price,
		ClientPaid:       m.ClientPaid,
		ClientPaidAt:     m.ClientPaidAt,
		IsPaid:           m.IsPaid,
		PaidAt:           m.PaidAt,
		Notes:            m.Notes,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	payload, err := domain.DecodePayload(m.Payload)
	if err != nil {
		d.Payload = domain.Payload{Version: domain.PayloadVersion}
		d.PayloadQuarantined = true
		return d, err
	}
	d.Payload = payload
	return d, nil
}
