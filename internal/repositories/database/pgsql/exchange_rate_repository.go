package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/SscSPs/tour_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements the ports.ExchangeRateRepositoryFacade interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// FindLatestExchangeRate retrieves the most recently effective rate pair.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error) {
	query := `
		SELECT
			exchange_rate_id, gel_to_usd, usd_to_gel, effective_at,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		ORDER BY effective_at DESC, created_at DESC
		LIMIT 1;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}
	modelRate, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ExchangeRate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// SaveExchangeRate inserts a new exchange rate; history is kept.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, gel_to_usd, usd_to_gel, effective_at,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.ExchangeRateID, m.GelToUSD, m.UsdToGEL, m.EffectiveAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}
