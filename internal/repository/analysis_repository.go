package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"secure-print-release/config"
	"secure-print-release/internal/model"
)

type AnalysisRepository struct {
	*config.Database
}

func NewAnalysisRepository(database *config.Database) *AnalysisRepository {
	return &AnalysisRepository{database}
}

// Upsert : one analysis row per job
func (r *AnalysisRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, analysis *model.DocumentAnalysis) error {
	query := `
		INSERT INTO document_analysis (id, job_id, sha256, detected_mime, size_bytes, page_count, word_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (job_id) DO UPDATE
		SET sha256 = EXCLUDED.sha256,
		    detected_mime = EXCLUDED.detected_mime,
		    size_bytes = EXCLUDED.size_bytes,
		    page_count = EXCLUDED.page_count,
		    word_count = EXCLUDED.word_count
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.JobID,
		analysis.Sha256,
		analysis.DetectedMime,
		analysis.SizeBytes,
		analysis.PageCount,
		analysis.WordCount,
		analysis.CreatedAt)

	return err
}

func (r *AnalysisRepository) GetByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (*model.DocumentAnalysis, error) {
	query := `
		SELECT id, job_id, sha256, detected_mime, size_bytes, page_count, word_count, created_at
		FROM document_analysis
		WHERE job_id = $1
	`

	var analysis model.DocumentAnalysis
	err := sqlx.GetContext(ctx, exec, &analysis, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
