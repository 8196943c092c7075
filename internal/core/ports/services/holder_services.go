package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// HolderReaderSvc defines read operations for holders
type HolderReaderSvc interface {
	ListHolders(ctx context.Context, actor domain.Actor, includeInactive bool) ([]domain.Holder, error)

	// GetHolderBalances recomputes every active holder's balance from the ledger.
	GetHolderBalances(ctx context.Context, actor domain.Actor) (*dto.HolderBalancesResponse, error)
}

// HolderWriterSvc defines write operations for holders
type HolderWriterSvc interface {
	CreateHolder(ctx context.Context, actor domain.Actor, req dto.CreateHolderRequest) (*domain.Holder, error)
	UpdateHolder(ctx context.Context, actor domain.Actor, holderID string, req dto.UpdateHolderRequest) (*domain.Holder, error)
}

// HolderSvcFacade combines all holder-related service interfaces
type HolderSvcFacade interface {
	HolderReaderSvc
	HolderWriterSvc
}
