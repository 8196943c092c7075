package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PayloadVersion is the schema version written for every new payload.
const PayloadVersion = 1

// DriverTypeNone marks a tour booked without a driver.
const DriverTypeNone = "none"

var payloadValidator = validator.New()

// ItineraryDay is one night of a tour.
type ItineraryDay struct {
	Date        string `json:"date" validate:"required"`
	Hotel       string `json:"hotel,omitempty" validate:"max=200"`
	Description string `json:"description,omitempty"`
}

// Guests holds the party size. Zero adults means the count was not captured.
type Guests struct {
	Adults   int `json:"adults" validate:"gte=0,lte=100"`
	Children int `json:"children" validate:"gte=0,lte=100"`
}

// AdultsOrDefault returns the adult count, assuming a couple when none was captured.
func (g Guests) AdultsOrDefault() int {
	if g.Adults <= 0 {
		return 2
	}
	return g.Adults
}

// Payload is the versioned itinerary document attached to a confirmation.
type Payload struct {
	Version           int               `json:"version"`
	Itinerary         []ItineraryDay    `json:"itinerary" validate:"dive"`
	Guests            Guests            `json:"guests"`
	DriverType        string            `json:"driver_type,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Checks            map[string]bool   `json:"checks,omitempty"`
	AttachmentStayMap map[string]string `json:"attachment_stay_map,omitempty"`
}

// Validate checks the payload shape and that every itinerary date parses.
func (p Payload) Validate() error {
	if err := payloadValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	for i, day := range p.Itinerary {
		if _, ok := ParseDate(day.Date); !ok {
			return fmt.Errorf("invalid payload: itinerary day %d has unparseable date %q", i+1, day.Date)
		}
	}
	return nil
}

// legacyPayload covers the unversioned documents written before the schema existed,
// where the itinerary lived under "days" and the adult count at the top level.
type legacyPayload struct {
	Days      []ItineraryDay `json:"days"`
	NumAdults *int           `json:"numAdults"`
}

// DecodePayload parses, migrates and validates a stored payload document.
func DecodePayload(raw []byte) (Payload, error) {
	var p Payload
	if len(raw) == 0 || string(raw) == "null" {
		return Payload{Version: PayloadVersion}, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("invalid payload: %w", err)
	}
	if p.Version == 0 {
		var legacy legacyPayload
		if err := json.Unmarshal(raw, &legacy); err == nil {
			if len(p.Itinerary) == 0 && len(legacy.Days) > 0 {
				p.Itinerary = legacy.Days
			}
			if p.Guests.Adults == 0 && legacy.NumAdults != nil {
				p.Guests.Adults = *legacy.NumAdults
			}
		}
		p.Version = PayloadVersion
	}
	if p.Version > PayloadVersion {
		return Payload{}, fmt.Errorf("invalid payload: unknown version %d", p.Version)
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// Confirmation is a tour booking.
type Confirmation struct {
	ID               string          `json:"id"`
	ConfirmationCode string          `json:"confirmationCode"`
	MainClientName   string          `json:"mainClientName"`
	ArrivalDate      string          `json:"arrivalDate"`   // DD/MM/YYYY as stored
	DepartureDate    string          `json:"departureDate"` // DD/MM/YYYY as stored
	TotalDays        int             `json:"totalDays"`
	Price            decimal.Decimal `json:"price"` // USD
	ClientPaid       bool            `json:"clientPaid"`
	ClientPaidAt     *time.Time      `json:"clientPaidAt,omitempty"`
	IsPaid           bool            `json:"isPaid"` // hotels paid
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	Notes            string          `json:"notes"`
	Payload          Payload         `json:"payload"`
	// PayloadQuarantined is set when the stored payload failed to decode; such
	// confirmations are shown but never drive derived entries.
	PayloadQuarantined bool `json:"payloadQuarantined"`
	AuditFields
}

// Arrival parses the stored arrival date.
func (c Confirmation) Arrival() (time.Time, bool) {
	return ParseDate(c.ArrivalDate)
}

// Departure parses the stored departure date.
func (c Confirmation) Departure() (time.Time, bool) {
	return ParseDate(c.DepartureDate)
}

// Validate checks the fields required at ingestion.
func (c Confirmation) Validate() error {
	if strings.TrimSpace(c.ConfirmationCode) == "" {
		return errors.New("confirmation code is required")
	}
	if strings.TrimSpace(c.MainClientName) == "" {
		return errors.New("main client name is required")
	}
	if _, ok := c.Arrival(); !ok {
		return fmt.Errorf("arrival date %q is not a valid date", c.ArrivalDate)
	}
	if c.DepartureDate != "" {
		if _, ok := c.Departure(); !ok {
			return fmt.Errorf("departure date %q is not a valid date", c.DepartureDate)
		}
	}
	if c.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}
	if c.TotalDays < 0 {
		return errors.New("total days cannot be negative")
	}
	return c.Payload.Validate()
}

// ConfirmationFilter narrows confirmation listings.
type ConfirmationFilter struct {
	Arrival DateRange
	Search  string
	Limit   int
}

// ClientPaymentChange is the atomic write produced by toggling a confirmation's
// client-paid flag: the flag itself plus at most one linked income transaction change.
type ClientPaymentChange struct {
	ConfirmationID string
	ClientPaid     bool
	ClientPaidAt   *time.Time
	// NewIncome is inserted unless the confirmation already has an income transaction.
	NewIncome *Transaction
	// IncomeID identifies an existing income transaction whose status is set to IncomeStatus.
	IncomeID            *string
	IncomeStatus        TransactionStatus
	ResponsibleHolderID *string
	UserID              string
	Now                 time.Time
}
