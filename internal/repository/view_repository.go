package repository

import (
	"context"
	"github.com/jmoiron/sqlx"
	"secure-print-release/config"
	"secure-print-release/internal/model"
)

// ViewRepository : append-only audit of spent views
type ViewRepository struct {
	*config.Database
}

func NewViewRepository(database *config.Database) *ViewRepository {
	return &ViewRepository{database}
}

func (r *ViewRepository) Create(ctx context.Context, exec sqlx.ExtContext, view *model.JobView) error {
	query := `
		INSERT INTO job_views (id, job_id, user_id, user_agent, ip_address, viewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := exec.ExecContext(ctx, query, view.ID, view.JobID, view.UserID, view.UserAgent, view.IPAddress, view.ViewedAt)
	return err
}

func (r *ViewRepository) ListByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]model.JobView, error) {
	query := `
		SELECT id, job_id, user_id, user_agent, ip_address, viewed_at
		FROM job_views
		WHERE job_id = $1
		ORDER BY viewed_at ASC
	`

	views := []model.JobView{}
	if err := sqlx.SelectContext(ctx, exec, &views, query, jobID); err != nil {
		return nil, err
	}
	return views, nil
}
