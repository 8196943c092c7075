package services

import (
	"context"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// ImportTokenSvc defines operations for import key management
type ImportTokenSvc interface {
	// CreateToken generates a new import key.
	// Returns the plaintext key (only shown once) and the token details
	CreateToken(ctx context.Context, actor domain.Actor, name string, expiresIn *time.Duration) (string, *domain.ImportToken, error)

	// ListTokens returns all live import tokens
	ListTokens(ctx context.Context, actor domain.Actor) ([]domain.ImportToken, error)

	// RevokeToken makes an import token unusable
	RevokeToken(ctx context.Context, actor domain.Actor, tokenID string) error

	// ValidateKey checks a plaintext key and returns its token.
	// Updates the last_used_at timestamp if the key is valid
	ValidateKey(ctx context.Context, key string) (*domain.ImportToken, error)
}

// ImportSvcFacade combines token management with the import itself.
type ImportSvcFacade interface {
	ImportTokenSvc

	// ImportConfirmations upserts confirmations by code on behalf of a token.
	ImportConfirmations(ctx context.Context, token domain.ImportToken, req dto.ImportConfirmationsRequest) (*dto.ImportConfirmationsResponse, error)
}
