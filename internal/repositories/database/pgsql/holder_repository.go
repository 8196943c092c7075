package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/SscSPs/tour_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxHolderRepository struct {
	BaseRepository
}

func newPgxHolderRepository(pool *pgxpool.Pool) portsrepo.HolderRepositoryFacade {
	return &PgxHolderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.HolderRepositoryFacade = (*PgxHolderRepository)(nil)

const selectHolderFields = `holder_id, name, holder_type, is_active, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxHolderRepository) FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+selectHolderFields+` FROM holders WHERE holder_id = $1;`, holderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query holder", err)
	}
	modelHolder, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Holder])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("holder with ID " + holderID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan holder", err)
	}
	holder := mapping.ToDomainHolder(modelHolder)
	return &holder, nil
}

func (r *PgxHolderRepository) ListHolders(ctx context.Context, includeInactive bool) ([]domain.Holder, error) {
	query := `SELECT ` + selectHolderFields + ` FROM holders`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list holders", err)
	}
	modelHolders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Holder])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan holders", err)
	}
	holders := make([]domain.Holder, len(modelHolders))
	for i, m := range modelHolders {
		holders[i] = mapping.ToDomainHolder(m)
	}
	return holders, nil
}

func (r *PgxHolderRepository) SaveHolder(ctx context.Context, holder domain.Holder) error {
	m := mapping.ToModelHolder(holder)
	query := `
		INSERT INTO holders (holder_id, name, holder_type, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.HolderID, m.Name, m.HolderType, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: holder %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(500, "failed to save holder "+m.HolderID, err)
	}
	return nil
}

func (r *PgxHolderRepository) UpdateHolder(ctx context.Context, holder domain.Holder) error {
	m := mapping.ToModelHolder(holder)
	query := `
		UPDATE holders
		SET name = $1, holder_type = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE holder_id = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Name, m.HolderType, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy, m.HolderID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update holder "+m.HolderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("holder with ID " + m.HolderID + " not found")
	}
	return nil
}
