package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/SscSPs/tour_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxImportTokenRepository struct {
	BaseRepository
}

// newPgxImportTokenRepository creates a new instance of PgxImportTokenRepository
func newPgxImportTokenRepository(db *pgxpool.Pool) portsrepo.ImportTokenRepository {
	return &PgxImportTokenRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ImportTokenRepository = (*PgxImportTokenRepository)(nil)

// exec is a helper method to execute a query that doesn't return rows
func (r *PgxImportTokenRepository) exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return r.Pool.Exec(ctx, sql, args...)
}

const (
	importTokensTable = "import_tokens"

	selectImportTokenFields = `
		import_token_id, name, token_hash, created_by,
		last_used_at, expires_at, created_at, revoked_at
	`

	insertImportTokenQuery = `
		INSERT INTO ` + importTokensTable + ` (
			import_token_id, name, token_hash, created_by, expires_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	findImportTokenByIDQuery = `
		SELECT ` + selectImportTokenFields + `
		FROM ` + importTokensTable + `
		WHERE import_token_id = $1
	`

	listImportTokensQuery = `
		SELECT ` + selectImportTokenFields + `
		FROM ` + importTokensTable + `
		WHERE revoked_at IS NULL
		ORDER BY created_at DESC
	`

	touchImportTokenQuery = `
		UPDATE ` + importTokensTable + `
		SET last_used_at = $2
		WHERE import_token_id = $1
	`

	revokeImportTokenQuery = `
		UPDATE ` + importTokensTable + `
		SET revoked_at = $2
		WHERE import_token_id = $1 AND revoked_at IS NULL
	`
)

// Create persists a new import token
func (r *PgxImportTokenRepository) Create(ctx context.Context, token *domain.ImportToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	m := mapping.ToModelImportToken(*token)
	if _, err := r.exec(ctx, insertImportTokenQuery, m.ImportTokenID, m.Name, m.TokenHash, m.CreatedBy, m.ExpiresAt, m.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to create import token", err)
	}
	return nil
}

// FindByID retrieves an import token by its ID, revoked or not
func (r *PgxImportTokenRepository) FindByID(ctx context.Context, id string) (*domain.ImportToken, error) {
	rows, err := r.Pool.Query(ctx, findImportTokenByIDQuery, id)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query import token", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ImportToken])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("import token not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan import token", err)
	}
	token := mapping.ToDomainImportToken(m)
	return &token, nil
}

// List retrieves every token that has not been revoked
func (r *PgxImportTokenRepository) List(ctx context.Context) ([]domain.ImportToken, error) {
	rows, err := r.Pool.Query(ctx, listImportTokensQuery)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list import tokens", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ImportToken])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan import tokens", err)
	}
	tokens := make([]domain.ImportToken, len(ms))
	for i, m := range ms {
		tokens[i] = mapping.ToDomainImportToken(m)
	}
	return tokens, nil
}

// TouchLastUsed records a successful authentication
func (r *PgxImportTokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	if _, err := r.exec(ctx, touchImportTokenQuery, id, at); err != nil {
		return apperrors.NewAppError(500, "failed to update import token usage", err)
	}
	return nil
}

// Revoke marks a token unusable
func (r *PgxImportTokenRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	cmdTag, err := r.exec(ctx, revokeImportTokenQuery, id, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revoke import token", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("import token not found")
	}
	return nil
}
