package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/edgefn"
	"github.com/hibiken/asynq"
)

// BookingEmailJob delivers the e-mails queued by a booking request.
type BookingEmailJob struct {
	Sender  ports.EmailSender
	Logger  *slog.Logger
	Metrics *Metrics
}

// Handle processes TaskBookingRequestEmail tasks.
func (j *BookingEmailJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Sender == nil {
		return errors.New("booking email: handler not configured")
	}
	var req domain.BookingEmailRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return fmt.Errorf("booking email: bad payload: %v: %w", err, asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(TaskBookingRequestEmail)
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := loggerOrDefault(j.Logger).With(
		slog.String("task", TaskBookingRequestEmail),
		slog.String("confirmation_code", req.ConfirmationCode),
		slog.Int("emails", len(req.Emails)),
	)
	if err := j.Sender.SendBookingEmails(ctx, req); err != nil {
		logger.Error("failed to send booking emails", slog.Any("error", err))
		if errors.Is(err, edgefn.ErrRejected) || errors.Is(err, edgefn.ErrNotConfigured) {
			return fmt.Errorf("booking email: %v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	logger.Info("booking emails sent")
	return nil
}

// RecurringExpensesJob runs the meals/driver generator as the system actor.
type RecurringExpensesJob struct {
	Finance portssvc.FinanceSvcFacade
	Logger  *slog.Logger
	Metrics *Metrics
}

// Handle processes TaskRecurringExpenses tasks.
func (j *RecurringExpensesJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Finance == nil {
		return errors.New("recurring expenses: handler not configured")
	}
	var payload RecurringExpensesPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("recurring expenses: bad payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	arrival, err := payload.Range()
	if err != nil {
		return fmt.Errorf("recurring expenses: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskRecurringExpenses)
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := loggerOrDefault(j.Logger).With(
		slog.String("task", TaskRecurringExpenses),
		slog.String("from", payload.From),
		slog.String("to", payload.To),
	)
	res, err := j.Finance.GenerateRecurringExpenses(ctx, domain.SystemActor(), arrival)
	if err != nil {
		logger.Error("recurring expense generation failed", slog.Any("error", err))
		return err
	}
	j.Metrics.AddGenerated(res.Inserted)
	logger.Info("recurring expenses generated", slog.Int("planned", res.Planned), slog.Int("inserted", res.Inserted))
	return nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
