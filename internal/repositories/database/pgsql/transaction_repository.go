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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const selectTransactionFields = `
	transaction_id, txn_date, kind, txn_type, category, description,
	amount, currency, to_amount, to_currency, status,
	confirmation_id, holder_id, from_holder_id, to_holder_id, responsible_holder_id,
	is_auto_generated, payment_method, notes, confirmed_at, confirmed_by,
	created_at, created_by, last_updated_at, last_updated_by
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, txn_date, kind, txn_type, category, description,
		amount, currency, to_amount, to_currency, status,
		confirmation_id, holder_id, from_holder_id, to_holder_id, responsible_holder_id,
		is_auto_generated, payment_method, notes, confirmed_at, confirmed_by,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
`

// execer is satisfied by both the pool and an open pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func transactionArgs(m models.Transaction) []interface{} {
	return []interface{}{
		m.TransactionID, m.TxnDate, m.Kind, m.TxnType, m.Category, m.Description,
		m.Amount, m.Currency, m.ToAmount, m.ToCurrency, m.Status,
		m.ConfirmationID, m.HolderID, m.FromHolderID, m.ToHolderID, m.ResponsibleHolderID,
		m.IsAutoGenerated, m.PaymentMethod, m.Notes, m.ConfirmedAt, m.ConfirmedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func insertTransaction(ctx context.Context, db execer, m models.Transaction) error {
	if _, err := db.Exec(ctx, insertTransactionQuery+";", transactionArgs(m)...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationError("referenced confirmation or holder does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+selectTransactionFields+` FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction", err)
	}
	modelTxn, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction with ID " + transactionID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction", err)
	}
	txn := mapping.ToDomainTransaction(modelTxn)
	return &txn, nil
}

// ListTransactions returns transactions matching the filter, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + selectTransactionFields + ` FROM transactions WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Dates.From != nil {
		query += fmt.Sprintf(" AND txn_date >= $%d", argNum)
		args = append(args, domain.DateOnly(*filter.Dates.From))
		argNum++
	}
	if filter.Dates.To != nil {
		query += fmt.Sprintf(" AND txn_date <= $%d", argNum)
		args = append(args, domain.DateOnly(*filter.Dates.To))
		argNum++
	}
	if filter.ConfirmationID != nil {
		query += fmt.Sprintf(" AND confirmation_id = $%d", argNum)
		args = append(args, *filter.ConfirmationID)
		argNum++
	}
	if filter.HolderID != nil {
		query += fmt.Sprintf(" AND $%d IN (holder_id, from_holder_id, to_holder_id, responsible_holder_id)", argNum)
		args = append(args, *filter.HolderID)
		argNum++
	}
	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argNum)
		args = append(args, string(*filter.Kind))
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}
	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, string(*filter.Category))
		argNum++
	}
	if filter.AfterDate != nil && filter.AfterCreatedAt != nil && filter.AfterID != nil {
		query += fmt.Sprintf(" AND (txn_date, created_at, transaction_id) < ($%d, $%d, $%d)", argNum, argNum+1, argNum+2)
		args = append(args, domain.DateOnly(*filter.AfterDate), *filter.AfterCreatedAt, *filter.AfterID)
		argNum += 3
	}

	query += " ORDER BY txn_date DESC, created_at DESC, transaction_id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	return r.collect(ctx, query, args...)
}

// ListTransactionsByConfirmations returns every transaction linked to any of the confirmations.
func (r *PgxTransactionRepository) ListTransactionsByConfirmations(ctx context.Context, confirmationIDs []string) ([]domain.Transaction, error) {
	if len(confirmationIDs) == 0 {
		return []domain.Transaction{}, nil
	}
	query := `
		SELECT ` + selectTransactionFields + `
		FROM transactions
		WHERE confirmation_id = ANY($1)
		ORDER BY txn_date DESC, created_at DESC, transaction_id DESC;
	`
	return r.collect(ctx, query, confirmationIDs)
}

func (r *PgxTransactionRepository) collect(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan transactions", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// SaveTransaction inserts a manually entered transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, mapping.ToModelTransaction(txn))
}

// SaveAutoGeneratedTransactions bulk inserts derived transactions. The partial
// unique index on (confirmation_id, category) for auto-generated rows makes a
// concurrent duplicate a no-op rather than an error.
func (r *PgxTransactionRepository) SaveAutoGeneratedTransactions(ctx context.Context, txns []domain.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	query := insertTransactionQuery + `
		ON CONFLICT (confirmation_id, category) WHERE is_auto_generated DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(query, transactionArgs(mapping.ToModelTransaction(txn))...)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range txns {
		cmdTag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, apperrors.NewAppError(500, "failed to insert auto-generated transactions", err)
		}
		inserted += int(cmdTag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, apperrors.NewAppError(500, "failed to close auto-generated transaction batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpdateTransactionStatus confirms or unconfirms a transaction.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, responsibleHolderID *string, userID string, now time.Time) error {
	var confirmedAt *time.Time
	var confirmedBy *string
	if status == domain.StatusConfirmed {
		confirmedAt = &now
		confirmedBy = &userID
	}
	query := `
		UPDATE transactions
		SET status = $1, responsible_holder_id = $2, confirmed_at = $3, confirmed_by = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $7;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), responsibleHolderID, confirmedAt, confirmedBy, now, userID, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction status", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction with ID " + transactionID + " not found")
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction with ID " + transactionID + " not found")
	}
	return nil
}
