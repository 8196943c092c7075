package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/google/uuid"
)

// confirmationService implements the ConfirmationSvcFacade interface
type confirmationService struct {
	BaseService
	confirmationRepo portsrepo.ConfirmationRepositoryFacade
	transactionRepo  portsrepo.TransactionReader
}

// ConfirmationOption configures the confirmation service.
type ConfirmationOption func(*confirmationService)

// WithConfirmationCache serves listings through the query cache.
func WithConfirmationCache(cache ports.QueryCache) ConfirmationOption {
	return func(s *confirmationService) {
		s.Cache = cache
	}
}

// NewConfirmationService creates a new confirmation service with the provided options
func NewConfirmationService(confirmationRepo portsrepo.ConfirmationRepositoryFacade, transactionRepo portsrepo.TransactionReader, options ...ConfirmationOption) portssvc.ConfirmationSvcFacade {
	svc := &confirmationService{
		confirmationRepo: confirmationRepo,
		transactionRepo:  transactionRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ConfirmationSvcFacade = (*confirmationService)(nil)

func (s *confirmationService) ListConfirmations(ctx context.Context, actor domain.Actor, params dto.ListConfirmationsParams) ([]domain.Confirmation, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewConfirmations); err != nil {
		return nil, err
	}
	arrival, err := params.ToDateRange()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	filter := domain.ConfirmationFilter{
		Arrival: arrival,
		Search:  strings.TrimSpace(params.Search),
		Limit:   params.Limit,
	}
	confirmations, err := cached(ctx, s.Cache, ports.EntityConfirmations, filter, func(ctx context.Context) ([]domain.Confirmation, error) {
		return s.confirmationRepo.ListConfirmations(ctx, filter)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list confirmations")
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	return confirmations, nil
}

func (s *confirmationService) GetConfirmation(ctx context.Context, actor domain.Actor, confirmationID string) (*domain.Confirmation, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewConfirmations); err != nil {
		return nil, err
	}
	return s.find(ctx, confirmationID)
}

func (s *confirmationService) find(ctx context.Context, confirmationID string) (*domain.Confirmation, error) {
	c, err := s.confirmationRepo.FindConfirmationByID(ctx, confirmationID)
	if err != nil {
		s.LogDebug(ctx, "Confirmation lookup failed", slog.String("confirmation_id", confirmationID), slog.String("error", err.Error()))
		return nil, err
	}
	return c, nil
}

func (s *confirmationService) UpdateNotes(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdateNotesRequest) (*domain.Confirmation, error) {
	if err := s.Authorize(ctx, actor, domain.PermEditConfirmations); err != nil {
		return nil, err
	}
	c, err := s.find(ctx, confirmationID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.confirmationRepo.UpdateConfirmationNotes(ctx, confirmationID, req.Notes, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update notes", slog.String("confirmation_id", confirmationID))
		return nil, fmt.Errorf("failed to update notes: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations)

	c.Notes = req.Notes
	c.Touch(actor.UserID, now)
	return c, nil
}

func (s *confirmationService) UpdatePayload(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdatePayloadRequest) (*domain.Confirmation, error) {
	if err := s.Authorize(ctx, actor, domain.PermEditConfirmations); err != nil {
		return nil, err
	}
	payload := req.Payload
	if payload.Version == 0 {
		payload.Version = domain.PayloadVersion
	}
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	c, err := s.find(ctx, confirmationID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.confirmationRepo.UpdateConfirmationPayload(ctx, confirmationID, payload, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update payload", slog.String("confirmation_id", confirmationID))
		return nil, fmt.Errorf("failed to update payload: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityLedger)

	c.Payload = payload
	c.PayloadQuarantined = false
	c.Touch(actor.UserID, now)
	return c, nil
}

func (s *confirmationService) ToggleClientPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleClientPaidRequest) (*dto.ClientPaidResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermToggleClientPaid); err != nil {
		return nil, err
	}
	if req.ClientPaid == nil {
		return nil, apperrors.NewValidationError("clientPaid is required")
	}
	c, err := s.find(ctx, confirmationID)
	if err != nil {
		return nil, err
	}

	linked, err := s.transactionRepo.ListTransactionsByConfirmations(ctx, []string{confirmationID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load linked transactions", slog.String("confirmation_id", confirmationID))
		return nil, fmt.Errorf("failed to load linked transactions: %w", err)
	}

	now := time.Now().UTC()
	change := buildClientPaymentChange(*c, findIncome(linked), *req.ClientPaid, req.ResponsibleHolderID, actor.UserID, now)

	income, err := s.confirmationRepo.ApplyClientPayment(ctx, change)
	if err != nil {
		s.LogError(ctx, err, "Failed to apply client payment",
			slog.String("confirmation_id", confirmationID),
			slog.Bool("client_paid", *req.ClientPaid))
		return nil, fmt.Errorf("failed to apply client payment: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)

	c.ClientPaid = change.ClientPaid
	c.ClientPaidAt = change.ClientPaidAt
	c.Touch(actor.UserID, now)

	s.LogInfo(ctx, "Client payment toggled",
		slog.String("confirmation_id", confirmationID),
		slog.Bool("client_paid", c.ClientPaid))
	return &dto.ClientPaidResponse{Confirmation: *c, Income: income}, nil
}

// findIncome returns the tour_payment income linked to the confirmation, if any.
func findIncome(txns []domain.Transaction) *domain.Transaction {
	for i := range txns {
		if txns[i].Kind == domain.KindIn && txns[i].Category == domain.CategoryTourPayment {
			return &txns[i]
		}
	}
	return nil
}

func buildClientPaymentChange(c domain.Confirmation, income *domain.Transaction, paid bool, responsible *string, userID string, now time.Time) domain.ClientPaymentChange {
	change := domain.ClientPaymentChange{
		ConfirmationID: c.ID,
		ClientPaid:     paid,
		UserID:         userID,
		Now:            now,
	}
	if paid {
		paidAt := now
		change.ClientPaidAt = &paidAt
	}

	switch {
	case income != nil:
		id := income.ID
		change.IncomeID = &id
		change.IncomeStatus = domain.StatusPending
		change.ResponsibleHolderID = income.ResponsibleHolderID
		if paid {
			change.IncomeStatus = domain.StatusConfirmed
			if responsible != nil && *responsible != "" {
				change.ResponsibleHolderID = responsible
			}
		}
	case paid && c.Price.IsPositive():
		cid := c.ID
		confirmedAt := now
		confirmedBy := userID
		change.NewIncome = &domain.Transaction{
			ID:                  uuid.NewString(),
			Date:                domain.DateOnly(now),
			Kind:                domain.KindIn,
			Type:                domain.LegacyTypeFor(domain.KindIn),
			Category:            domain.CategoryTourPayment,
			Description:         "Tour payment " + c.ConfirmationCode,
			Amount:              c.Price,
			Currency:            domain.CurrencyUSD,
			Status:              domain.StatusConfirmed,
			ConfirmationID:      &cid,
			ResponsibleHolderID: responsible,
			ConfirmedAt:         &confirmedAt,
			ConfirmedBy:         &confirmedBy,
			AuditFields:         domain.NewAuditFields(userID, now),
		}
	}
	return change
}

func (s *confirmationService) ToggleHotelsPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleHotelsPaidRequest) (*domain.Confirmation, error) {
	if err := s.Authorize(ctx, actor, domain.PermToggleHotelsPaid); err != nil {
		return nil, err
	}
	if req.IsPaid == nil {
		return nil, apperrors.NewValidationError("isPaid is required")
	}
	c, err := s.find(ctx, confirmationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var paidAt *time.Time
	if *req.IsPaid {
		paidAt = &now
	}
	if err := s.confirmationRepo.SetHotelsPaid(ctx, confirmationID, *req.IsPaid, paidAt, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to set hotels paid", slog.String("confirmation_id", confirmationID))
		return nil, fmt.Errorf("failed to set hotels paid: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityLedger)

	c.IsPaid = *req.IsPaid
	c.PaidAt = paidAt
	c.Touch(actor.UserID, now)
	return c, nil
}
