package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

type profileService struct {
	BaseService
	profileRepo portsrepo.ProfileRepositoryFacade
}

// NewProfileService creates the profile service.
func NewProfileService(profileRepo portsrepo.ProfileRepositoryFacade) portssvc.ProfileSvcFacade {
	return &profileService{profileRepo: profileRepo}
}

var _ portssvc.ProfileSvcFacade = (*profileService)(nil)

// ResolveActor loads the caller's role. Users without a profile row are
// treated as visitors.
func (s *profileService) ResolveActor(ctx context.Context, userID string, viewAs string) (domain.Actor, error) {
	if userID == "" {
		return domain.Actor{}, apperrors.NewAppError(http.StatusUnauthorized, "user not authenticated", apperrors.ErrUnauthorized)
	}
	role := domain.RoleVisitor
	profile, err := s.profileRepo.FindProfileByUserID(ctx, userID)
	switch {
	case err == nil:
		role = profile.Role
	case errors.Is(err, apperrors.ErrNotFound):
		s.LogDebug(ctx, "No profile for user, defaulting to visitor", slog.String("user_id", userID))
	default:
		s.LogError(ctx, err, "Failed to load profile", slog.String("user_id", userID))
		return domain.Actor{}, fmt.Errorf("failed to load profile: %w", err)
	}

	actor, err := domain.NewActor(userID, role, viewAs)
	if err != nil {
		return domain.Actor{}, apperrors.NewForbiddenError(err.Error())
	}
	return actor, nil
}

func (s *profileService) GetProfile(ctx context.Context, actor domain.Actor) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindProfileByUserID(ctx, actor.UserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = &domain.Profile{UserID: actor.UserID, Role: actor.Role}
	}
	return &dto.ProfileResponse{
		Profile:       *profile,
		EffectiveRole: actor.EffectiveRole,
		Permissions:   actor.Permissions(),
	}, nil
}

func (s *profileService) GetCalendarPrefs(ctx context.Context, actor domain.Actor) (domain.CalendarPrefs, error) {
	raw, err := s.profileRepo.GetPreference(ctx, actor.UserID, domain.CalendarPrefsKey)
	if err != nil {
		s.LogError(ctx, err, "Failed to load calendar preferences", slog.String("user_id", actor.UserID))
		return domain.CalendarPrefs{}, fmt.Errorf("failed to load calendar preferences: %w", err)
	}
	return domain.ParseCalendarPrefs(raw), nil
}

// SaveCalendarPrefs stores the preferences after normalising unknown values to defaults.
func (s *profileService) SaveCalendarPrefs(ctx context.Context, actor domain.Actor, prefs domain.CalendarPrefs) (domain.CalendarPrefs, error) {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return domain.CalendarPrefs{}, fmt.Errorf("failed to encode calendar preferences: %w", err)
	}
	normalized := domain.ParseCalendarPrefs(raw)
	if raw, err = json.Marshal(normalized); err != nil {
		return domain.CalendarPrefs{}, fmt.Errorf("failed to encode calendar preferences: %w", err)
	}

	if err := s.profileRepo.SavePreference(ctx, actor.UserID, domain.CalendarPrefsKey, raw, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to save calendar preferences", slog.String("user_id", actor.UserID))
		return domain.CalendarPrefs{}, fmt.Errorf("failed to save calendar preferences: %w", err)
	}
	return normalized, nil
}
