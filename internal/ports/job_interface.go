package ports

import (
	"context"
	"github.com/jmoiron/sqlx"
	"secure-print-release/internal/model"
	"time"
)

// JobRepository : SQL layer for print jobs
type JobRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, job *model.Job) error
	GetByID(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Job, error)
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Job, error)
	List(ctx context.Context, exec sqlx.ExtContext, userID string) ([]model.Job, error)
	MarkViewed(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) (bool, error)
	MarkReleased(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time, printerID, releasedBy *string) (bool, error)
	MarkCompleted(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) (bool, error)
	MarkDeleted(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
	GetByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (*model.Document, error)
	DeleteByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (string, bool, error)
}

type ViewRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, view *model.JobView) error
	ListByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]model.JobView, error)
}

type AnalysisRepository interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, analysis *model.DocumentAnalysis) error
	GetByJobID(ctx context.Context, exec sqlx.ExtContext, jobID string) (*model.DocumentAnalysis, error)
}

// Repositories : all durable tables behind one transaction source
type Repositories struct {
	Jobs      JobRepository
	Documents DocumentRepository
	Views     ViewRepository
	Analysis  AnalysisRepository
}

type JobService interface {
	Submit(ctx context.Context, input model.SubmitInput) (*model.Job, error)
	Fetch(ctx context.Context, id, token string) (*model.Job, *model.DocumentBody, error)
	View(ctx context.Context, id, token string, viewer model.Viewer) (*model.Job, *model.DocumentBody, error)
	MintPrintToken(ctx context.Context, id, token, clientIP string) (*model.PrintToken, error)
	StreamDecrypted(ctx context.Context, jobID, printToken string, write func(body *model.DocumentBody) error) error
	Release(ctx context.Context, id, token string, printerID, releasedBy *string) (*model.Job, error)
	Complete(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, userID string) ([]model.Job, error)
	ListViews(ctx context.Context, id string) ([]model.JobView, error)
	ExpiredEntries() []model.ExpiredEntry
}
