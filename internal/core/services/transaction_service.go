package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/utils/pagination"
)

var (
	ErrAutoGeneratedImmutable = errors.New("auto-generated transactions cannot be deleted")
	ErrUnknownHolder          = errors.New("holder does not exist or is inactive")
	ErrUnknownConfirmation    = errors.New("linked confirmation does not exist")
)

// transactionService manages manually entered ledger transactions.
type transactionService struct {
	BaseService
	transactionRepo  portsrepo.TransactionRepositoryFacade
	holderRepo       portsrepo.HolderReader
	confirmationRepo portsrepo.ConfirmationReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, holderRepo portsrepo.HolderReader, confirmationRepo portsrepo.ConfirmationReader, cache ports.QueryCache) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:      BaseService{Cache: cache},
		transactionRepo:  transactionRepo,
		holderRepo:       holderRepo,
		confirmationRepo: confirmationRepo,
	}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions returns one page, newest first. One extra row is fetched to
// tell whether another page exists.
func (s *transactionService) ListTransactions(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewFinance); err != nil {
		return nil, err
	}
	filter, err := transactionFilterFromParams(params)
	if err != nil {
		return nil, err
	}
	pageSize := filter.Limit
	filter.Limit = pageSize + 1

	txns, err := cached(ctx, s.Cache, ports.EntityTransactions, filter, func(ctx context.Context) ([]domain.Transaction, error) {
		return s.transactionRepo.ListTransactions(ctx, filter)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{Transactions: txns}
	if len(txns) > pageSize {
		resp.Transactions = txns[:pageSize]
		last := resp.Transactions[pageSize-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.ID})
		resp.NextToken = &token
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.Transaction{}
	}
	return resp, nil
}

// transactionFilterFromParams turns query parameters into a repository filter.
func transactionFilterFromParams(params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	dates, err := params.ToDateRange()
	if err != nil {
		return domain.TransactionFilter{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	filter := domain.TransactionFilter{Dates: dates, Limit: params.Limit}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if v := strings.TrimSpace(params.ConfirmationID); v != "" {
		filter.ConfirmationID = &v
	}
	if v := strings.TrimSpace(params.HolderID); v != "" {
		filter.HolderID = &v
	}
	if params.Kind != "" {
		kind := domain.TransactionKind(params.Kind)
		if !kind.IsValid() {
			return filter, fmt.Errorf("%w: invalid kind %q", apperrors.ErrValidation, params.Kind)
		}
		filter.Kind = &kind
	}
	if params.Status != "" {
		status := domain.TransactionStatus(params.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}
	if v := strings.TrimSpace(params.Category); v != "" {
		cat := domain.Category(v)
		filter.Category = &cat
	}
	if params.NextToken != "" {
		cursor, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.AfterDate = &cursor.Date
		filter.AfterCreatedAt = &cursor.CreatedAt
		filter.AfterID = &cursor.ID
	}
	return filter, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return nil, err
	}

	date, ok := domain.ParseDate(req.Date)
	if !ok {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}
	category, err := domain.ResolveCategory(req.Category, req.CustomCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		ID:                  uuid.NewString(),
		Date:                date,
		Kind:                req.Kind,
		Type:                domain.LegacyTypeFor(req.Kind),
		Category:            category,
		Description:         strings.TrimSpace(req.Description),
		Amount:              req.Amount,
		Currency:            req.Currency,
		ToAmount:            req.ToAmount,
		ToCurrency:          req.ToCurrency,
		Status:              status,
		ConfirmationID:      nonBlank(req.ConfirmationID),
		HolderID:            nonBlank(req.HolderID),
		FromHolderID:        nonBlank(req.FromHolderID),
		ToHolderID:          nonBlank(req.ToHolderID),
		ResponsibleHolderID: nonBlank(req.ResponsibleHolderID),
		PaymentMethod:       req.PaymentMethod,
		Notes:               req.Notes,
		AuditFields:         domain.NewAuditFields(actor.UserID, now),
	}
	if txn.IsConfirmed() {
		txn.ConfirmedAt = &now
		txn.ConfirmedBy = &actor.UserID
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.checkReferences(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("kind", string(txn.Kind)),
			slog.String("category", string(txn.Category)))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.Invalidate(ctx, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.ID),
		slog.String("kind", string(txn.Kind)),
		slog.String("amount", txn.Amount.String()),
		slog.String("currency", string(txn.Currency)))
	return &txn, nil
}

// checkReferences makes sure every referenced holder is active and the linked confirmation exists.
func (s *transactionService) checkReferences(ctx context.Context, txn domain.Transaction) error {
	for _, id := range []*string{txn.HolderID, txn.FromHolderID, txn.ToHolderID, txn.ResponsibleHolderID} {
		if id == nil {
			continue
		}
		if err := s.checkHolder(ctx, *id); err != nil {
			return err
		}
	}
	if txn.ConfirmationID != nil {
		if _, err := s.confirmationRepo.FindConfirmationByID(ctx, *txn.ConfirmationID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrUnknownConfirmation)
			}
			return fmt.Errorf("failed to load confirmation: %w", err)
		}
	}
	return nil
}

func (s *transactionService) checkHolder(ctx context.Context, holderID string) error {
	holder, err := s.holderRepo.FindHolderByID(ctx, holderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrUnknownHolder)
		}
		return fmt.Errorf("failed to load holder: %w", err)
	}
	if !holder.IsActive {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrUnknownHolder)
	}
	return nil
}

func (s *transactionService) ConfirmTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.ConfirmTransactionRequest) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return nil, err
	}
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	responsible := txn.ResponsibleHolderID
	if id := nonBlank(req.ResponsibleHolderID); id != nil {
		if err := s.checkHolder(ctx, *id); err != nil {
			return nil, err
		}
		responsible = id
	}

	now := time.Now().UTC()
	if err := s.transactionRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusConfirmed, responsible, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to confirm transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to confirm transaction: %w", err)
	}
	s.Invalidate(ctx, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)

	txn.Status = domain.StatusConfirmed
	txn.ResponsibleHolderID = responsible
	txn.ConfirmedAt = &now
	txn.ConfirmedBy = &actor.UserID
	txn.Touch(actor.UserID, now)
	return txn, nil
}

func (s *transactionService) UnconfirmTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return nil, err
	}
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.transactionRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusPending, txn.ResponsibleHolderID, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to unconfirm transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to unconfirm transaction: %w", err)
	}
	s.Invalidate(ctx, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)

	txn.Status = domain.StatusPending
	txn.ConfirmedAt = nil
	txn.ConfirmedBy = nil
	txn.Touch(actor.UserID, now)
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, actor domain.Actor, transactionID string) error {
	if err := s.Authorize(ctx, actor, domain.PermManageTransactions); err != nil {
		return err
	}
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.IsAutoGenerated {
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrAutoGeneratedImmutable)
	}
	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.Invalidate(ctx, ports.EntityTransactions, ports.EntityHolders, ports.EntityLedger)
	return nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
