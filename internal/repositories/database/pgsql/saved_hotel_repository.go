package pgsql

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/SscSPs/tour_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSavedHotelRepository struct {
	BaseRepository
}

func newPgxSavedHotelRepository(pool *pgxpool.Pool) portsrepo.SavedHotelRepositoryFacade {
	return &PgxSavedHotelRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SavedHotelRepositoryFacade = (*PgxSavedHotelRepository)(nil)

func (r *PgxSavedHotelRepository) ListSavedHotels(ctx context.Context) ([]domain.SavedHotel, error) {
	query := `
		SELECT saved_hotel_id, name, email, created_at, created_by, last_updated_at, last_updated_by
		FROM saved_hotels
		ORDER BY lower(name) ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list saved hotels", err)
	}
	modelHotels, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SavedHotel])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan saved hotels", err)
	}
	hotels := make([]domain.SavedHotel, len(modelHotels))
	for i, m := range modelHotels {
		hotels[i] = mapping.ToDomainSavedHotel(m)
	}
	return hotels, nil
}

// UpsertSavedHotel inserts or updates the address by case-insensitive name.
func (r *PgxSavedHotelRepository) UpsertSavedHotel(ctx context.Context, hotel domain.SavedHotel) error {
	query := `
		INSERT INTO saved_hotels (saved_hotel_id, name, email, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ((lower(name))) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		hotel.ID, hotel.Name, hotel.Email,
		hotel.CreatedAt, hotel.CreatedBy, hotel.LastUpdatedAt, hotel.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save hotel "+hotel.Name, err)
	}
	return nil
}

func (r *PgxSavedHotelRepository) DeleteSavedHotel(ctx context.Context, hotelID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM saved_hotels WHERE saved_hotel_id = $1;`, hotelID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete saved hotel", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("saved hotel with ID " + hotelID + " not found")
	}
	return nil
}
