package ports

import (
	"context"
	"secure-print-release/internal/model"
)

// JobCache : Redis layer, read-through cache of job rows
type JobCache interface {
	SetJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	DeleteJob(ctx context.Context, id string) error
}
