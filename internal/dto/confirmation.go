package dto

import (
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListConfirmationsParams defines query parameters for listing confirmations.
type ListConfirmationsParams struct {
	DateRangeParams
	Search string `form:"search"`
	Limit  int    `form:"limit,default=200" binding:"min=1,max=1000"`
}

// UpdateNotesRequest replaces a confirmation's notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=5000"`
}

// UpdatePayloadRequest replaces a confirmation's itinerary document.
type UpdatePayloadRequest struct {
	Payload domain.Payload `json:"payload"`
}

// ToggleClientPaidRequest sets the client-paid flag.
type ToggleClientPaidRequest struct {
	ClientPaid *bool `json:"clientPaid" binding:"required"`
	// ResponsibleHolderID is credited when the income is confirmed.
	ResponsibleHolderID *string `json:"responsibleHolderId"`
}

// ToggleHotelsPaidRequest sets the hotels-paid flag.
type ToggleHotelsPaidRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// ClientPaidResponse reports the confirmation and its income transaction after a toggle.
type ClientPaidResponse struct {
	Confirmation domain.Confirmation `json:"confirmation"`
	Income       *domain.Transaction `json:"income,omitempty"`
}

// ConfirmationInput is an externally supplied confirmation, used by imports and booking requests.
type ConfirmationInput struct {
	ConfirmationCode string          `json:"confirmationCode"`
	MainClientName   string          `json:"mainClientName" binding:"required"`
	ArrivalDate      string          `json:"arrivalDate" binding:"required"`
	DepartureDate    string          `json:"departureDate"`
	TotalDays        int             `json:"totalDays" binding:"min=0"`
	Price            decimal.Decimal `json:"price"`
	Notes            string          `json:"notes"`
	Payload          domain.Payload  `json:"payload"`
}

// ToConfirmation builds a domain confirmation with normalised dates.
func (in ConfirmationInput) ToConfirmation(id, userID string, now time.Time) domain.Confirmation {
	c := domain.Confirmation{
		ID:               id,
		ConfirmationCode: in.ConfirmationCode,
		MainClientName:   in.MainClientName,
		ArrivalDate:      normalizeDisplayDate(in.ArrivalDate),
		DepartureDate:    normalizeDisplayDate(in.DepartureDate),
		TotalDays:        in.TotalDays,
		Price:            in.Price,
		Notes:            in.Notes,
		Payload:          in.Payload,
		AuditFields:      domain.NewAuditFields(userID, now),
	}
	if c.Payload.Version == 0 {
		c.Payload.Version = domain.PayloadVersion
	}
	return c
}

// normalizeDisplayDate rewrites a parseable date into the stored DD/MM/YYYY form
// and leaves anything else untouched for validation to reject.
func normalizeDisplayDate(raw string) string {
	if t, ok := domain.ParseDate(raw); ok {
		return domain.FormatDisplayDate(t)
	}
	return raw
}
