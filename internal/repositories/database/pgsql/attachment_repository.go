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

type PgxAttachmentRepository struct {
	BaseRepository
}

func newPgxAttachmentRepository(pool *pgxpool.Pool) portsrepo.AttachmentRepositoryFacade {
	return &PgxAttachmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AttachmentRepositoryFacade = (*PgxAttachmentRepository)(nil)

const selectAttachmentFields = `
	attachment_id, confirmation_id, kind, file_name, storage_path, content_type,
	size_bytes, stay_key, original_amount, original_currency, uploaded_at, uploaded_by
`

func (r *PgxAttachmentRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ConfirmationAttachment, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+selectAttachmentFields+` FROM confirmation_attachments WHERE attachment_id = $1;`, attachmentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query attachment", err)
	}
	modelAtt, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ConfirmationAttachment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("attachment with ID " + attachmentID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan attachment", err)
	}
	att := mapping.ToDomainAttachment(modelAtt)
	return &att, nil
}

// ListAttachmentsByConfirmation returns attachments in upload order.
func (r *PgxAttachmentRepository) ListAttachmentsByConfirmation(ctx context.Context, confirmationID string) ([]domain.ConfirmationAttachment, error) {
	query := `
		SELECT ` + selectAttachmentFields + `
		FROM confirmation_attachments
		WHERE confirmation_id = $1
		ORDER BY uploaded_at ASC, attachment_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, confirmationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list attachments", err)
	}
	modelAtts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ConfirmationAttachment])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan attachments", err)
	}
	atts := make([]domain.ConfirmationAttachment, len(modelAtts))
	for i, m := range modelAtts {
		atts[i] = mapping.ToDomainAttachment(m)
	}
	return atts, nil
}

func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.ConfirmationAttachment) error {
	m := mapping.ToModelAttachment(attachment)
	query := `
		INSERT INTO confirmation_attachments (
			attachment_id, confirmation_id, kind, file_name, storage_path, content_type,
			size_bytes, stay_key, original_amount, original_currency, uploaded_at, uploaded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AttachmentID, m.ConfirmationID, m.Kind, m.FileName, m.StoragePath, m.ContentType,
		m.SizeBytes, m.StayKey, m.OriginalAmount, m.OriginalCurrency, m.UploadedAt, m.UploadedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save attachment "+m.AttachmentID, err)
	}
	return nil
}

func (r *PgxAttachmentRepository) DeleteAttachment(ctx context.Context, attachmentID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM confirmation_attachments WHERE attachment_id = $1;`, attachmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete attachment", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("attachment with ID " + attachmentID + " not found")
	}
	return nil
}
