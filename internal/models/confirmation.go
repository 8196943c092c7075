package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation is a row of the confirmations table. The raw date strings are
// kept as entered; arrival_on/departure_on hold the normalised value, NULL when
// the raw string could not be parsed.
type Confirmation struct {
	ConfirmationID   string          `db:"confirmation_id"`
	ConfirmationCode string          `db:"confirmation_code"`
	MainClientName   string          `db:"main_client_name"`
	ArrivalDate      string          `db:"arrival_date"`
	ArrivalOn        *time.Time      `db:"arrival_on"`
	DepartureDate    string          `db:"departure_date"`
	DepartureOn      *time.Time      `db:"departure_on"`
	TotalDays        int             `db:"total_days"`
	Price            decimal.Decimal `db:"price"`
	ClientPaid       bool            `db:"client_paid"`
	ClientPaidAt     *time.Time      `db:"client_paid_at"`
	IsPaid           bool            `db:"is_paid"`
	PaidAt           *time.Time      `db:"paid_at"`
	Notes            string          `db:"notes"`
	Payload          []byte          `db:"payload"`
	AuditFields
}
