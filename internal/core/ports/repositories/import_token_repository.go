package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ImportTokenRepository defines the interface for import key data access operations
type ImportTokenRepository interface {
	// Create persists a new import token
	Create(ctx context.Context, token *domain.ImportToken) error

	// FindByID retrieves an import token by its ID
	FindByID(ctx context.Context, id string) (*domain.ImportToken, error)

	// List retrieves every token that has not been revoked
	List(ctx context.Context) ([]domain.ImportToken, error)

	// TouchLastUsed records a successful authentication
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Revoke marks a token unusable
	Revoke(ctx context.Context, id string, at time.Time) error
}
