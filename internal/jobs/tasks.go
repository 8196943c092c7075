// Package jobs runs the asynq background work: booking e-mails and the
// recurring expense generator.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the only queue the worker listens on.
	QueueDefault = "default"
	// TaskBookingRequestEmail sends the hotel e-mails of one booking request.
	TaskBookingRequestEmail = "booking:request_email"
	// TaskRecurringExpenses materialises meals and driver costs.
	TaskRecurringExpenses = "finance:recurring_expenses"
)

const isoDate = "2006-01-02"

// RecurringExpensesPayload limits generation to an arrival window. Empty
// bounds are open.
type RecurringExpensesPayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// NewRecurringExpensesPayload renders a date range for the queue.
func NewRecurringExpensesPayload(r domain.DateRange) RecurringExpensesPayload {
	var p RecurringExpensesPayload
	if r.From != nil {
		p.From = r.From.Format(isoDate)
	}
	if r.To != nil {
		p.To = r.To.Format(isoDate)
	}
	return p
}

// Range parses the payload bounds.
func (p RecurringExpensesPayload) Range() (domain.DateRange, error) {
	var r domain.DateRange
	if p.From != "" {
		t, err := time.Parse(isoDate, p.From)
		if err != nil {
			return r, fmt.Errorf("invalid from date %q: %w", p.From, err)
		}
		r.From = &t
	}
	if p.To != "" {
		t, err := time.Parse(isoDate, p.To)
		if err != nil {
			return r, fmt.Errorf("invalid to date %q: %w", p.To, err)
		}
		r.To = &t
	}
	return r, nil
}

// NewBookingEmailTask constructs the e-mail task.
func NewBookingEmailTask(req domain.BookingEmailRequest) (*asynq.Task, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingRequestEmail, data), nil
}

// NewRecurringExpensesTask constructs the generator task.
func NewRecurringExpensesTask(r domain.DateRange) (*asynq.Task, error) {
	data, err := json.Marshal(NewRecurringExpensesPayload(r))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecurringExpenses, data), nil
}
