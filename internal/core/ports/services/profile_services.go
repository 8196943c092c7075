package services

import (
	"context"
	"io"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// ProfileSvcFacade resolves request identities and per-user preferences.
type ProfileSvcFacade interface {
	// ResolveActor loads the caller's role and applies an optional view-as role.
	ResolveActor(ctx context.Context, userID string, viewAs string) (domain.Actor, error)

	GetProfile(ctx context.Context, actor domain.Actor) (*dto.ProfileResponse, error)
	GetCalendarPrefs(ctx context.Context, actor domain.Actor) (domain.CalendarPrefs, error)
	SaveCalendarPrefs(ctx context.Context, actor domain.Actor, prefs domain.CalendarPrefs) (domain.CalendarPrefs, error)
}

// ExportSvc renders CSV downloads.
type ExportSvc interface {
	ExportTransactionsCSV(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams, w io.Writer) error
	ExportConfirmationsCSV(ctx context.Context, actor domain.Actor, params dto.LedgerParams, w io.Writer) error
}
