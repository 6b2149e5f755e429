package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"secure-print-release/config"
	"secure-print-release/internal/model"
)

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : stores the sealed document of a job
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := `
		INSERT INTO documents (id, job_id, content, storage_key, mime_type, filename, size,
			is_encrypted, iv, auth_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		document.ID,
		document.JobID,
		document.Content,
		document.StorageKey,
		document.MimeType,
		document.Filename,
		document.Size,
		document.IsEncrypted,
		document.IV,
		document.AuthTag,
		document.CreatedAt)

	return err
}

func (r *DocumentRepository) GetByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (*model.Document, error) {
	query := `
		SELECT id, job_id, COALESCE(content, ''::bytea) AS content, storage_key, mime_type,
		       filename, size, is_encrypted, iv, auth_tag, created_at
		FROM documents
		WHERE job_id = $1
	`

	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &document, nil
}

// DeleteByJobID : returns the blob storage key, if any, and whether a row was removed
func (r *DocumentRepository) DeleteByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (string, bool, error) {
	query := `
		DELETE FROM documents
		WHERE job_id = $1
		RETURNING storage_key
	`

	var storageKey string
	err := sqlx.GetContext(ctx, exec, &storageKey, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return storageKey, true, nil
}
