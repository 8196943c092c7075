package dto

import (
	"fmt"
	"strings"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// DateRangeParams is the from/to pair accepted by every date-filtered listing.
// Both DD/MM/YYYY and YYYY-MM-DD are accepted.
type DateRangeParams struct {
	From string `form:"from" json:"from"`
	To   string `form:"to" json:"to"`
}

// ToDateRange parses the bounds. An empty bound is open.
func (p DateRangeParams) ToDateRange() (domain.DateRange, error) {
	var r domain.DateRange
	if s := strings.TrimSpace(p.From); s != "" {
		t, ok := domain.ParseDate(s)
		if !ok {
			return r, fmt.Errorf("invalid from date %q", p.From)
		}
		r.From = &t
	}
	if s := strings.TrimSpace(p.To); s != "" {
		t, ok := domain.ParseDate(s)
		if !ok {
			return r, fmt.Errorf("invalid to date %q", p.To)
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, fmt.Errorf("to date is before from date")
	}
	return r, nil
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
