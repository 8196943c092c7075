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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const selectExpenseFields = `
	expense_id, expense_type, description, amount, currency, expense_date,
	confirmation_id, attachment_id, created_at, created_by, last_updated_at, last_updated_by
`

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+selectExpenseFields+` FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expense", err)
	}
	modelExp, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Expense])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("expense with ID " + expenseID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan expense", err)
	}
	exp := mapping.ToDomainExpense(modelExp)
	return &exp, nil
}

// ListExpenses returns expenses newest first; nil confirmationIDs means all.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, confirmationIDs []string) ([]domain.Expense, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if confirmationIDs == nil {
		rows, err = r.Pool.Query(ctx, `SELECT `+selectExpenseFields+` FROM expenses ORDER BY expense_date DESC, created_at DESC;`)
	} else {
		rows, err = r.Pool.Query(ctx, `
			SELECT `+selectExpenseFields+`
			FROM expenses
			WHERE confirmation_id = ANY($1)
			ORDER BY expense_date DESC, created_at DESC;`, confirmationIDs)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list expenses", err)
	}
	modelExps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Expense])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan expenses", err)
	}
	return mapping.ToDomainExpenseSlice(modelExps), nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (
			expense_id, expense_type, description, amount, currency, expense_date,
			confirmation_id, attachment_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID, m.ExpenseType, m.Description, m.Amount, m.Currency, m.ExpenseDate,
		m.ConfirmationID, m.AttachmentID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationError("referenced confirmation or attachment does not exist")
		}
		return apperrors.NewAppError(500, "failed to save expense "+m.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("expense with ID " + expenseID + " not found")
	}
	return nil
}

// DeleteExpensesByAttachment removes expenses derived from an attachment. Zero rows is fine.
func (r *PgxExpenseRepository) DeleteExpensesByAttachment(ctx context.Context, attachmentID string) error {
	if _, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE attachment_id = $1;`, attachmentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete expenses for attachment "+attachmentID, err)
	}
	return nil
}
