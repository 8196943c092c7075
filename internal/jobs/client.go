package jobs

import (
	"context"
	"fmt"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/hibiken/asynq"
)

var _ ports.JobEnqueuer = (*Client)(nil)

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an asynq-backed enqueuer.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueBookingEmails queues the hotel e-mails of one booking request.
func (c *Client) EnqueueBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error {
	task, err := NewBookingEmailTask(req)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskBookingRequestEmail, err)
	}
	return nil
}

// EnqueueRecurringExpenses queues a generator run for the arrival window.
func (c *Client) EnqueueRecurringExpenses(ctx context.Context, arrival domain.DateRange) error {
	task, err := NewRecurringExpensesTask(arrival)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskRecurringExpenses, err)
	}
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// Inline runs jobs in the calling goroutine. It is used when no Redis is
// configured, so local setups still send e-mails.
type Inline struct {
	Emails    *BookingEmailJob
	Recurring *RecurringExpensesJob
}

var _ ports.JobEnqueuer = (*Inline)(nil)

// EnqueueBookingEmails runs the e-mail job immediately.
func (i *Inline) EnqueueBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error {
	task, err := NewBookingEmailTask(req)
	if err != nil {
		return err
	}
	return i.Emails.Handle(ctx, task)
}

// EnqueueRecurringExpenses runs the generator immediately.
func (i *Inline) EnqueueRecurringExpenses(ctx context.Context, arrival domain.DateRange) error {
	task, err := NewRecurringExpensesTask(arrival)
	if err != nil {
		return err
	}
	return i.Recurring.Handle(ctx, task)
}
