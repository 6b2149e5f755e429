package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	"time"
)

const jobColumns = `
	id, user_id, document_name, pages, copies, color, duplex, stapling, priority, notes,
	status, cost, submitted_at, released_at, completed_at, deleted_at, first_viewed_at,
	last_viewed_at, secure_token, release_link, expires_at, expiry_hours, view_count,
	printer_id, released_by`

type JobRepository struct {
	*config.Database
}

func NewJobRepository(database *config.Database) *JobRepository {
	return &JobRepository{database}
}

// Create : inserts a pending job
func (r *JobRepository) Create(ctx context.Context, exec sqlx.ExtContext, job *model.Job) error {
	query := `
		INSERT INTO jobs (id, user_id, document_name, pages, copies, color, duplex, stapling,
			priority, notes, status, cost, submitted_at, secure_token, release_link, expires_at,
			expiry_hours, view_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		job.ID,
		job.UserID,
		job.DocumentName,
		job.Pages,
		job.Copies,
		job.Color,
		job.Duplex,
		job.Stapling,
		job.Priority,
		job.Notes,
		job.Status,
		job.Cost,
		job.SubmittedAt,
		job.SecureToken,
		job.ReleaseLink,
		job.ExpiresAt,
		job.ExpiryHours,
		job.ViewCount)

	return err
}

func (r *JobRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Job, error) {
	return r.get(ctx, exec, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

// GetByIDForUpdate : locks the row until the surrounding transaction ends
func (r *JobRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Job, error) {
	return r.get(ctx, exec, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id)
}

func (r *JobRepository) get(ctx context.Context, exec sqlx.ExtContext, query string, id string) (*model.Job, error) {
	var job model.Job
	err := sqlx.GetContext(ctx, exec, &job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

// List : all jobs, or one user's jobs, newest first
func (r *JobRepository) List(ctx context.Context, exec sqlx.ExtContext, userID string) ([]model.Job, error) {
	var (
		rows *sqlx.Rows
		err  error
	)
	if userID == "" {
		rows, err = exec.QueryxContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY submitted_at DESC`)
	} else {
		rows, err = exec.QueryxContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY submitted_at DESC`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var job model.Job
		if err := rows.StructScan(&job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// MarkViewed : spends the single view; false when it was already spent
func (r *JobRepository) MarkViewed(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) (bool, error) {
	query := `
		UPDATE jobs
		SET view_count = 1,
		    first_viewed_at = COALESCE(first_viewed_at, $2),
		    last_viewed_at = $2
		WHERE id = $1 AND view_count = 0 AND status = 'pending'
	`
	return affected(exec.ExecContext(ctx, query, id, at))
}

func (r *JobRepository) MarkReleased(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time, printerID, releasedBy *string) (bool, error) {
	query := `
		UPDATE jobs
		SET status = 'released', released_at = $2, printer_id = $3, released_by = $4
		WHERE id = $1 AND status = 'pending' AND view_count = 1
	`
	return affected(exec.ExecContext(ctx, query, id, at, printerID, releasedBy))
}

func (r *JobRepository) MarkCompleted(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) (bool, error) {
	query := `
		UPDATE jobs
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'released'
	`
	return affected(exec.ExecContext(ctx, query, id, at))
}

// MarkDeleted : idempotent, an already deleted job keeps its first deleted_at
func (r *JobRepository) MarkDeleted(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error {
	query := `
		UPDATE jobs
		SET status = 'deleted', deleted_at = $2
		WHERE id = $1 AND status <> 'deleted'
	`
	_, err := exec.ExecContext(ctx, query, id, at)
	return err
}

func (r *JobRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, tx.Rollback, tx.Commit, nil
}

func affected(result sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
