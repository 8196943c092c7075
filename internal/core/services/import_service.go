package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/utils"
)

// importSecretBytes is the entropy of an import key secret.
const importSecretBytes = 32

var errInvalidImportKey = errors.New("invalid import key")

// importService implements the ImportSvcFacade interface
type importService struct {
	BaseService
	tokenRepo        portsrepo.ImportTokenRepository
	confirmationRepo portsrepo.ConfirmationWriter
	jobs             ports.JobEnqueuer
}

// NewImportService creates a new instance of importService
func NewImportService(tokenRepo portsrepo.ImportTokenRepository, confirmationRepo portsrepo.ConfirmationWriter, jobs ports.JobEnqueuer, cache ports.QueryCache) portssvc.ImportSvcFacade {
	return &importService{
		BaseService:      BaseService{Cache: cache},
		tokenRepo:        tokenRepo,
		confirmationRepo: confirmationRepo,
		jobs:             jobs,
	}
}

var _ portssvc.ImportSvcFacade = (*importService)(nil)

// CreateToken generates a new import key. The plaintext is tl_{id}_{secret};
// only the bcrypt hash of the secret is stored.
func (s *importService) CreateToken(ctx context.Context, actor domain.Actor, name string, expiresIn *time.Duration) (string, *domain.ImportToken, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageImportTokens); err != nil {
		return "", nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, apperrors.NewValidationError("token name is required")
	}
	if expiresIn != nil && *expiresIn <= 0 {
		return "", nil, apperrors.NewValidationError("expiry must be in the future")
	}

	secret, err := utils.GenerateSecureRandomString(importSecretBytes)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	hash, err := utils.HashSecret(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token: %w", err)
	}

	now := time.Now().UTC()
	token := &domain.ImportToken{
		ID:        uuid.NewString(),
		Name:      name,
		TokenHash: hash,
		CreatedBy: actor.UserID,
		CreatedAt: now,
	}
	if expiresIn != nil {
		expiry := now.Add(*expiresIn)
		token.ExpiresAt = &expiry
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to save import token", slog.String("name", name))
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}
	s.LogInfo(ctx, "Import token created", slog.String("token_id", token.ID), slog.String("name", name))

	// Return the plaintext key (only time it's available) and the token details
	return domain.ImportTokenPrefix + token.ID + "_" + secret, token, nil
}

func (s *importService) ListTokens(ctx context.Context, actor domain.Actor) ([]domain.ImportToken, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageImportTokens); err != nil {
		return nil, err
	}
	tokens, err := s.tokenRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

func (s *importService) RevokeToken(ctx context.Context, actor domain.Actor, tokenID string) error {
	if err := s.Authorize(ctx, actor, domain.PermManageImportTokens); err != nil {
		return err
	}
	if _, err := s.tokenRepo.FindByID(ctx, tokenID); err != nil {
		return err
	}
	if err := s.tokenRepo.Revoke(ctx, tokenID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to revoke import token", slog.String("token_id", tokenID))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ValidateKey checks a plaintext key. Every failure looks the same to the caller.
func (s *importService) ValidateKey(ctx context.Context, key string) (*domain.ImportToken, error) {
	unauthorized := apperrors.NewAppError(http.StatusUnauthorized, "invalid or expired import key", errInvalidImportKey)

	rest, ok := strings.CutPrefix(strings.TrimSpace(key), domain.ImportTokenPrefix)
	if !ok {
		return nil, unauthorized
	}
	id, secret, ok := strings.Cut(rest, "_")
	if !ok || id == "" || secret == "" {
		return nil, unauthorized
	}

	token, err := s.tokenRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, unauthorized
		}
		return nil, fmt.Errorf("failed to load import token: %w", err)
	}
	now := time.Now().UTC()
	if !token.IsUsable(now) || !utils.CheckSecretHash(secret, token.TokenHash) {
		s.LogDebug(ctx, "Rejected import key", slog.String("token_id", id))
		return nil, unauthorized
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, token.ID, now); err != nil {
		// Log the error but don't fail the validation
		s.LogError(ctx, err, "Failed to record import token use", slog.String("token_id", token.ID))
	}
	token.LastUsedAt = &now
	return token, nil
}

// ImportConfirmations upserts every valid input by confirmation code and
// reports the rest. Recurring costs for the imported arrivals are queued.
func (s *importService) ImportConfirmations(ctx context.Context, token domain.ImportToken, req dto.ImportConfirmationsRequest) (*dto.ImportConfirmationsResponse, error) {
	if len(req.Confirmations) == 0 {
		return nil, apperrors.NewValidationError("at least one confirmation is required")
	}

	resp := &dto.ImportConfirmationsResponse{Rejected: make([]dto.ImportRejection, 0)}
	reject := func(i int, code, reason string) {
		resp.Rejected = append(resp.Rejected, dto.ImportRejection{Index: i, ConfirmationCode: code, Reason: reason})
	}

	now := time.Now().UTC()
	var arrival domain.DateRange
	for i, in := range req.Confirmations {
		conf := in.ToConfirmation(uuid.NewString(), token.CreatedBy, now)
		conf.ConfirmationCode = strings.TrimSpace(conf.ConfirmationCode)
		if conf.ConfirmationCode == "" {
			reject(i, "", "confirmation code is required")
			continue
		}
		if err := conf.Validate(); err != nil {
			reject(i, conf.ConfirmationCode, err.Error())
			continue
		}

		created, err := s.confirmationRepo.UpsertConfirmationByCode(ctx, conf)
		if err != nil {
			s.LogError(ctx, err, "Failed to import confirmation",
				slog.String("confirmation_code", conf.ConfirmationCode),
				slog.String("token_id", token.ID))
			reject(i, conf.ConfirmationCode, "could not be stored")
			continue
		}
		if created {
			resp.Created++
		} else {
			resp.Updated++
		}
		if t, ok := conf.Arrival(); ok {
			arrival = widen(arrival, t)
		}
	}

	if resp.Created+resp.Updated > 0 {
		s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityLedger)
		if err := s.jobs.EnqueueRecurringExpenses(ctx, arrival); err != nil {
			s.LogError(ctx, err, "Failed to queue recurring expenses after import")
		}
	}
	s.LogInfo(ctx, "Confirmations imported",
		slog.String("token_id", token.ID),
		slog.Int("created", resp.Created),
		slog.Int("updated", resp.Updated),
		slog.Int("rejected", len(resp.Rejected)))
	return resp, nil
}

// widen grows r so that it contains t.
func widen(r domain.DateRange, t time.Time) domain.DateRange {
	if r.From == nil || t.Before(*r.From) {
		from := t
		r.From = &from
	}
	if r.To == nil || t.After(*r.To) {
		to := t
		r.To = &to
	}
	return r
}
