package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

type PgxConfirmationRepository struct {
	BaseRepository
}

// newPgxConfirmationRepository creates a new repository for confirmations.
func newPgxConfirmationRepository(pool *pgxpool.Pool) portsrepo.ConfirmationRepositoryFacade {
	return &PgxConfirmationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ConfirmationRepositoryFacade = (*PgxConfirmationRepository)(nil)

const selectConfirmationFields = `
	confirmation_id, confirmation_code, main_client_name,
	arrival_date, arrival_on, departure_date, departure_on,
	total_days, price, client_paid, client_paid_at, is_paid, paid_at,
	notes, payload, created_at, created_by, last_updated_at, last_updated_by
`

// FindConfirmationByID retrieves a confirmation by its ID.
func (r *PgxConfirmationRepository) FindConfirmationByID(ctx context.Context, confirmationID string) (*domain.Confirmation, error) {
	query := `SELECT ` + selectConfirmationFields + ` FROM confirmations WHERE confirmation_id = $1;`
	return r.findOne(ctx, query, confirmationID, "confirmation with ID "+confirmationID+" not found")
}

// FindConfirmationByCode retrieves a confirmation by its business code.
func (r *PgxConfirmationRepository) FindConfirmationByCode(ctx context.Context, code string) (*domain.Confirmation, error) {
	query := `SELECT ` + selectConfirmationFields + ` FROM confirmations WHERE confirmation_code = $1;`
	return r.findOne(ctx, query, code, "confirmation with code "+code+" not found")
}

func (r *PgxConfirmationRepository) findOne(ctx context.Context, query, arg, notFoundMsg string) (*domain.Confirmation, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query confirmation", err)
	}
	modelConf, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Confirmation])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(notFoundMsg)
		}
		return nil, apperrors.NewAppError(500, "failed to scan confirmation", err)
	}
	c := toDomainConfirmation(ctx, modelConf)
	return &c, nil
}

// toDomainConfirmation maps a row, reporting payloads that had to be quarantined.
func toDomainConfirmation(ctx context.Context, m models.Confirmation) domain.Confirmation {
	c, err := mapping.ToDomainConfirmation(m)
	if err != nil {
		slog.WarnContext(ctx, "Confirmation payload quarantined",
			slog.String("confirmation_id", m.ConfirmationID),
			slog.String("error", err.Error()))
	}
	return c
}

// ListConfirmations returns confirmations matching the filter ordered by arrival.
func (r *PgxConfirmationRepository) ListConfirmations(ctx context.Context, filter domain.ConfirmationFilter) ([]domain.Confirmation, error) {
	query := `SELECT ` + selectConfirmationFields + ` FROM confirmations WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	// arrival_on is NULL for dates that never parsed, so any bound drops them.
	if filter.Arrival.From != nil {
		query += fmt.Sprintf(" AND arrival_on >= $%d", argNum)
		args = append(args, domain.DateOnly(*filter.Arrival.From))
		argNum++
	}
	if filter.Arrival.To != nil {
		query += fmt.Sprintf(" AND arrival_on <= $%d", argNum)
		args = append(args, domain.DateOnly(*filter.Arrival.To))
		argNum++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query += fmt.Sprintf(" AND (confirmation_code ILIKE $%d OR main_client_name ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+escapeLike(search)+"%")
		argNum++
	}

	query += " ORDER BY arrival_on ASC NULLS LAST, confirmation_code ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list confirmations", err)
	}
	modelConfs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Confirmation])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan confirmations", err)
	}

	confirmations := make([]domain.Confirmation, len(modelConfs))
	for i, m := range modelConfs {
		confirmations[i] = toDomainConfirmation(ctx, m)
	}
	return confirmations, nil
}

// CountConfirmationCodesWithPrefix counts codes starting with prefix.
func (r *PgxConfirmationRepository) CountConfirmationCodesWithPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM confirmations WHERE confirmation_code LIKE $1;`,
		escapeLike(prefix)+"%",
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count confirmation codes", err)
	}
	return count, nil
}

// SaveConfirmation inserts a new confirmation.
func (r *PgxConfirmationRepository) SaveConfirmation(ctx context.Context, confirmation domain.Confirmation) error {
	m, err := mapping.ToModelConfirmation(confirmation)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map confirmation", err)
	}

	query := `
		INSERT INTO confirmations (
			confirmation_id, confirmation_code, main_client_name,
			arrival_date, arrival_on, departure_date, departure_on,
			total_days, price, client_paid, client_paid_at, is_paid, paid_at,
			notes, payload, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.ConfirmationID, m.ConfirmationCode, m.MainClientName,
		m.ArrivalDate, m.ArrivalOn, m.DepartureDate, m.DepartureOn,
		m.TotalDays, m.Price, m.ClientPaid, m.ClientPaidAt, m.IsPaid, m.PaidAt,
		m.Notes, m.Payload, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: confirmation code %s already exists", apperrors.ErrDuplicate, m.ConfirmationCode)
		}
		return apperrors.NewAppError(500, "failed to save confirmation "+m.ConfirmationID, err)
	}
	return nil
}

// UpsertConfirmationByCode inserts or updates by confirmation code. The payment
// flags and notes belong to the office and are left alone on update.
func (r *PgxConfirmationRepository) UpsertConfirmationByCode(ctx context.Context, confirmation domain.Confirmation) (bool, error) {
	m, err := mapping.ToModelConfirmation(confirmation)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to map confirmation", err)
	}

	query := `
		INSERT INTO confirmations (
			confirmation_id, confirmation_code, main_client_name,
			arrival_date, arrival_on, departure_date, departure_on,
			total_days, price, client_paid, client_paid_at, is_paid, paid_at,
			notes, payload, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (confirmation_code) DO UPDATE SET
			main_client_name = EXCLUDED.main_client_name,
			arrival_date = EXCLUDED.arrival_date,
			arrival_on = EXCLUDED.arrival_on,
			departure_date = EXCLUDED.departure_date,
			departure_on = EXCLUDED.departure_on,
			total_days = EXCLUDED.total_days,
			price = EXCLUDED.price,
			payload = EXCLUDED.payload,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING (xmax = 0) AS created;
	`
	var created bool
	err = r.Pool.QueryRow(ctx, query,
		m.ConfirmationID, m.ConfirmationCode, m.MainClientName,
		m.ArrivalDate, m.ArrivalOn, m.DepartureDate, m.DepartureOn,
		m.TotalDays, m.Price, m.ClientPaid, m.ClientPaidAt, m.IsPaid, m.PaidAt,
		m.Notes, m.Payload, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&created)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to upsert confirmation "+m.ConfirmationCode, err)
	}
	return created, nil
}

// UpdateConfirmationNotes replaces the free-text notes.
func (r *PgxConfirmationRepository) UpdateConfirmationNotes(ctx context.Context, confirmationID, notes, userID string, now time.Time) error {
	query := `
		UPDATE confirmations
		SET notes = $1, last_updated_at = $2, last_updated_by = $3
		WHERE confirmation_id = $4;
	`
	return r.execUpdate(ctx, "notes", confirmationID, query, notes, now, userID, confirmationID)
}

// UpdateConfirmationPayload replaces the itinerary document.
func (r *PgxConfirmationRepository) UpdateConfirmationPayload(ctx context.Context, confirmationID string, payload domain.Payload, userID string, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode payload", err)
	}
	query := `
		UPDATE confirmations
		SET payload = $1, last_updated_at = $2, last_updated_by = $3
		WHERE confirmation_id = $4;
	`
	return r.execUpdate(ctx, "payload", confirmationID, query, raw, now, userID, confirmationID)
}

// SetHotelsPaid flips the hotels-paid flag.
func (r *PgxConfirmationRepository) SetHotelsPaid(ctx context.Context, confirmationID string, paid bool, paidAt *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE confirmations
		SET is_paid = $1, paid_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE confirmation_id = $5;
	`
	return r.execUpdate(ctx, "hotels paid flag", confirmationID, query, paid, paidAt, now, userID, confirmationID)
}

func (r *PgxConfirmationRepository) execUpdate(ctx context.Context, what, confirmationID, query string, args ...interface{}) error {
	cmdTag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update confirmation "+what, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("confirmation with ID " + confirmationID + " not found")
	}
	return nil
}

// ApplyClientPayment writes the client-paid flag together with the linked
// income transaction change inside one database transaction.
func (r *PgxConfirmationRepository) ApplyClientPayment(ctx context.Context, change domain.ClientPaymentChange) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	cmdTag, err := tx.Exec(ctx, `
		UPDATE confirmations
		SET client_paid = $1, client_paid_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE confirmation_id = $5;`,
		change.ClientPaid, change.ClientPaidAt, change.Now, change.UserID, change.ConfirmationID,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update client payment flag", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("confirmation with ID " + change.ConfirmationID + " not found")
	}

	var income *domain.Transaction
	switch {
	case change.NewIncome != nil:
		if err := insertTransaction(ctx, tx, mapping.ToModelTransaction(*change.NewIncome)); err != nil {
			return nil, err
		}
		income = change.NewIncome
	case change.IncomeID != nil:
		var confirmedAt *time.Time
		var confirmedBy *string
		if change.IncomeStatus == domain.StatusConfirmed {
			confirmedAt = &change.Now
			confirmedBy = &change.UserID
		}
		rows, err := tx.Query(ctx, `
			UPDATE transactions
			SET status = $1, responsible_holder_id = $2, confirmed_at = $3, confirmed_by = $4,
			    last_updated_at = $5, last_updated_by = $6
			WHERE transaction_id = $7
			RETURNING `+selectTransactionFields,
			string(change.IncomeStatus), change.ResponsibleHolderID, confirmedAt, confirmedBy,
			change.Now, change.UserID, *change.IncomeID,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to update income transaction", err)
		}
		modelTxn, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Transaction])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFoundError("income transaction " + *change.IncomeID + " not found")
			}
			return nil, apperrors.NewAppError(500, "failed to scan income transaction", err)
		}
		updated := mapping.ToDomainTransaction(modelTxn)
		income = &updated
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return income, nil
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
