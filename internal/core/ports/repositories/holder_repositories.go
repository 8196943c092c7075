package repositories

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// HolderReader defines read operations for holders
type HolderReader interface {
	FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error)
	ListHolders(ctx context.Context, includeInactive bool) ([]domain.Holder, error)
}

// HolderWriter defines write operations for holders
type HolderWriter interface {
	SaveHolder(ctx context.Context, holder domain.Holder) error
	UpdateHolder(ctx context.Context, holder domain.Holder) error
}

// HolderRepositoryFacade combines all holder-related repository interfaces
type HolderRepositoryFacade interface {
	HolderReader
	HolderWriter
}
