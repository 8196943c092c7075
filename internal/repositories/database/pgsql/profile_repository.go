package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/SscSPs/tour_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProfileRepository struct {
	BaseRepository
}

func newPgxProfileRepository(pool *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

// FindProfileByUserID retrieves the profile row for an authenticated user.
func (r *PgxProfileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, full_name, email, role, created_at, created_by, last_updated_at, last_updated_by
		FROM profiles
		WHERE user_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query profile", err)
	}
	modelProfile, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Profile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("profile for user " + userID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan profile", err)
	}
	profile := mapping.ToDomainProfile(modelProfile)
	return &profile, nil
}

// GetPreference returns the stored blob, or nil when the user has none under key.
func (r *PgxProfileRepository) GetPreference(ctx context.Context, userID, key string) ([]byte, error) {
	var value []byte
	err := r.Pool.QueryRow(ctx,
		`SELECT value FROM user_preferences WHERE user_id = $1 AND pref_key = $2;`,
		userID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to read preference "+key, err)
	}
	return value, nil
}

// SavePreference upserts the blob stored under key.
func (r *PgxProfileRepository) SavePreference(ctx context.Context, userID, key string, value []byte, now time.Time) error {
	query := `
		INSERT INTO user_preferences (user_id, pref_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, pref_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, userID, key, value, now); err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save preference %s for user %s", key, userID), err)
	}
	return nil
}
