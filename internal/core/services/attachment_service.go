package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// MaxAttachmentSize is the largest upload accepted, in bytes.
const MaxAttachmentSize int64 = 20 << 20

type attachmentService struct {
	BaseService
	attachmentRepo   portsrepo.AttachmentRepositoryFacade
	confirmationRepo portsrepo.ConfirmationRepositoryFacade
	expenseRepo      portsrepo.ExpenseWriter
	storage          ports.ObjectStorage
	legacyMatching   bool
}

// AttachmentDeps groups the collaborators of the attachment service.
type AttachmentDeps struct {
	AttachmentRepo   portsrepo.AttachmentRepositoryFacade
	ConfirmationRepo portsrepo.ConfirmationRepositoryFacade
	ExpenseRepo      portsrepo.ExpenseWriter
	Storage          ports.ObjectStorage
	Cache            ports.QueryCache
	// LegacyMatching enables the file-name heuristics for attachments uploaded
	// before explicit stay keys existed.
	LegacyMatching bool
}

// NewAttachmentService creates the attachment service.
func NewAttachmentService(deps AttachmentDeps) portssvc.AttachmentSvcFacade {
	return &attachmentService{
		BaseService:      BaseService{Cache: deps.Cache},
		attachmentRepo:   deps.AttachmentRepo,
		confirmationRepo: deps.ConfirmationRepo,
		expenseRepo:      deps.ExpenseRepo,
		storage:          deps.Storage,
		legacyMatching:   deps.LegacyMatching,
	}
}

var _ portssvc.AttachmentSvcFacade = (*attachmentService)(nil)

func validateUpload(in dto.UploadAttachmentInput) error {
	if !in.Kind.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid attachment kind %q", in.Kind))
	}
	if strings.TrimSpace(in.FileName) == "" || in.Body == nil {
		return apperrors.NewValidationError("file is required")
	}
	if in.Size <= 0 || in.Size > MaxAttachmentSize {
		return apperrors.NewValidationError(fmt.Sprintf("file size must be between 1 byte and %d MB", MaxAttachmentSize>>20))
	}
	isPDF := strings.EqualFold(path.Ext(in.FileName), ".pdf") || strings.HasPrefix(in.ContentType, "application/pdf")
	if !isPDF {
		return apperrors.NewValidationError("only PDF files can be attached")
	}
	if in.OriginalAmount != nil {
		if !in.OriginalAmount.IsPositive() {
			return apperrors.NewValidationError("original amount must be greater than zero")
		}
		if in.OriginalCurrency == nil || !in.OriginalCurrency.IsValid() {
			return apperrors.NewValidationError("original currency is required with an amount")
		}
	}
	return nil
}

func (s *attachmentService) UploadAttachment(ctx context.Context, actor domain.Actor, in dto.UploadAttachmentInput) (*domain.ConfirmationAttachment, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageAttachments); err != nil {
		return nil, err
	}
	if err := validateUpload(in); err != nil {
		return nil, err
	}
	conf, err := s.confirmationRepo.FindConfirmationByID(ctx, in.ConfirmationID)
	if err != nil {
		return nil, err
	}

	stayKey := strings.TrimSpace(in.StayKey)
	if stayKey != "" && !hasStay(reconcile.ExtractStays(conf.Payload), stayKey) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown stay %q", stayKey))
	}

	now := time.Now().UTC()
	objectID := uuid.NewString()
	att := domain.ConfirmationAttachment{
		ID:               objectID,
		ConfirmationID:   conf.ID,
		Kind:             in.Kind,
		FileName:         in.FileName,
		StoragePath:      domain.AttachmentPath(conf.ID, stayKey, objectID, in.FileName),
		ContentType:      "application/pdf",
		SizeBytes:        in.Size,
		OriginalAmount:   in.OriginalAmount,
		OriginalCurrency: in.OriginalCurrency,
		UploadedAt:       now,
		UploadedBy:       actor.UserID,
	}
	if stayKey != "" {
		att.StayKey = &stayKey
	}

	if err := s.storage.Upload(ctx, att.StoragePath, in.Body, in.Size, att.ContentType); err != nil {
		s.LogError(ctx, err, "Failed to upload attachment", slog.String("path", att.StoragePath))
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}
	if err := s.attachmentRepo.SaveAttachment(ctx, att); err != nil {
		s.LogError(ctx, err, "Failed to save attachment, removing object", slog.String("path", att.StoragePath))
		if delErr := s.storage.Delete(ctx, att.StoragePath); delErr != nil {
			s.LogError(ctx, delErr, "Failed to remove orphaned object", slog.String("path", att.StoragePath))
		}
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations)

	if stayKey != "" {
		s.assignStay(ctx, conf, att.ID, stayKey, actor.UserID, now)
	}

	if att.OriginalAmount != nil && att.Kind == domain.AttachmentInvoice {
		if err := s.recordInvoiceExpense(ctx, conf, att, actor.UserID, now); err != nil {
			return &att, apperrors.NewAppError(http.StatusInternalServerError,
				"attachment stored but its expense could not be recorded", err)
		}
	}
	return &att, nil
}

func hasStay(stays []reconcile.Stay, key string) bool {
	for _, st := range stays {
		if st.Key == key {
			return true
		}
	}
	return false
}

// assignStay records an explicit stay choice in the payload map. The key is
// also encoded in the storage path, so a failure here only costs a re-derive.
func (s *attachmentService) assignStay(ctx context.Context, conf *domain.Confirmation, attachmentID, stayKey, userID string, now time.Time) {
	payload := conf.Payload
	stayMap := make(map[string]string, len(payload.AttachmentStayMap)+1)
	for k, v := range payload.AttachmentStayMap {
		stayMap[k] = v
	}
	stayMap[attachmentID] = stayKey
	payload.AttachmentStayMap = stayMap

	if err := s.confirmationRepo.UpdateConfirmationPayload(ctx, conf.ID, payload, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to record stay assignment",
			slog.String("confirmation_id", conf.ID),
			slog.String("attachment_id", attachmentID))
		return
	}
	conf.Payload = payload
}

func (s *attachmentService) recordInvoiceExpense(ctx context.Context, conf *domain.Confirmation, att domain.ConfirmationAttachment, userID string, now time.Time) error {
	confID := conf.ID
	attID := att.ID
	expense := domain.Expense{
		ID:             uuid.NewString(),
		Type:           domain.ExpenseTypeHotelInvoice,
		Description:    fmt.Sprintf("Invoice %s (%s)", att.FileName, conf.ConfirmationCode),
		Amount:         *att.OriginalAmount,
		Currency:       *att.OriginalCurrency,
		Date:           domain.DateOnly(now),
		ConfirmationID: &confID,
		AttachmentID:   &attID,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to record invoice expense",
			slog.String("confirmation_id", confID),
			slog.String("attachment_id", attID))
		return err
	}
	s.Invalidate(ctx, ports.EntityExpenses, ports.EntityLedger)
	return nil
}

// ListAttachments matches the confirmation's attachments to its stays and
// writes a changed assignment back to the payload.
func (s *attachmentService) ListAttachments(ctx context.Context, actor domain.Actor, confirmationID string) (*dto.AttachmentsResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewConfirmations); err != nil {
		return nil, err
	}
	conf, err := s.confirmationRepo.FindConfirmationByID(ctx, confirmationID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.ListAttachmentsByConfirmation(ctx, confirmationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list attachments", slog.String("confirmation_id", confirmationID))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	stays := reconcile.ExtractStays(conf.Payload)
	match := reconcile.MatchAttachments(stays, attachments, conf.Payload.AttachmentStayMap, s.legacyMatching)
	if match.Changed && !conf.PayloadQuarantined {
		payload := conf.Payload
		payload.AttachmentStayMap = match.Map
		if err := s.confirmationRepo.UpdateConfirmationPayload(ctx, conf.ID, payload, actor.UserID, time.Now().UTC()); err != nil {
			s.LogError(ctx, err, "Failed to persist derived stay map", slog.String("confirmation_id", conf.ID))
		} else {
			s.Invalidate(ctx, ports.EntityConfirmations)
		}
	}

	return &dto.AttachmentsResponse{
		Attachments: attachments,
		Stays:       reconcile.Coverage(stays, attachments, match.Map),
		StayMap:     match.Map,
		Unmatched:   match.Unmatched,
	}, nil
}

func (s *attachmentService) GetAttachmentURL(ctx context.Context, actor domain.Actor, attachmentID string) (*dto.SignedURLResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermViewConfirmations); err != nil {
		return nil, err
	}
	att, err := s.attachmentRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.SignedURL(ctx, att.StoragePath)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign attachment URL", slog.String("attachment_id", attachmentID))
		return nil, fmt.Errorf("failed to sign attachment url: %w", err)
	}
	return &dto.SignedURLResponse{URL: url}, nil
}

func (s *attachmentService) DeleteAttachment(ctx context.Context, actor domain.Actor, attachmentID string) error {
	if err := s.Authorize(ctx, actor, domain.PermManageAttachments); err != nil {
		return err
	}
	att, err := s.attachmentRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, att.StoragePath); err != nil {
		s.LogError(ctx, err, "Failed to delete attachment object", slog.String("path", att.StoragePath))
		return fmt.Errorf("failed to delete attachment object: %w", err)
	}
	if err := s.expenseRepo.DeleteExpensesByAttachment(ctx, attachmentID); err != nil {
		s.LogError(ctx, err, "Failed to delete derived expense", slog.String("attachment_id", attachmentID))
		return fmt.Errorf("failed to delete derived expense: %w", err)
	}
	if err := s.attachmentRepo.DeleteAttachment(ctx, attachmentID); err != nil {
		s.LogError(ctx, err, "Failed to delete attachment", slog.String("attachment_id", attachmentID))
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityExpenses, ports.EntityLedger)
	return nil
}
