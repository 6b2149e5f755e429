package repository_test

import (
	"context"
	"database/sql/driver"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	"secure-print-release/internal/repository"
	"testing"
	"time"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var jobColumnNames = []string{
	"id", "user_id", "document_name", "pages", "copies", "color", "duplex", "stapling", "priority", "notes",
	"status", "cost", "submitted_at", "released_at", "completed_at", "deleted_at", "first_viewed_at",
	"last_viewed_at", "secure_token", "release_link", "expires_at", "expiry_hours", "view_count",
	"printer_id", "released_by",
}

func jobRow(id string, status model.JobStatus, viewCount int, submittedAt time.Time) []driver.Value {
	return []driver.Value{
		id, "u1", "a.pdf", 3, 2, false, true, false, "normal", "",
		string(status), "0.48", submittedAt, nil, nil, nil, nil,
		nil, "tok", "http://h/print-release/" + id + "?token=tok", submittedAt.Add(15 * time.Minute), nil, viewCount,
		nil, nil,
	}
}

func TestJobRepository_GetByID(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewJobRepository(database)
	submittedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM jobs WHERE id = \\$1").
			WithArgs("job-1").
			WillReturnRows(sqlmock.NewRows(jobColumnNames).AddRow(jobRow("job-1", model.JobStatusPending, 0, submittedAt)...))

		job, err := repo.GetByID(context.Background(), database, "job-1")
		require.NoError(t, err)
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, model.JobStatusPending, job.Status)
		assert.Equal(t, 3, job.Pages)
		assert.True(t, job.Duplex)
		assert.True(t, decimal.RequireFromString("0.48").Equal(job.Cost))
		assert.Nil(t, job.ReleasedAt)
		assert.Equal(t, "tok", job.SecureToken)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM jobs WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(jobColumnNames))

		job, err := repo.GetByID(context.Background(), database, "missing")
		assert.Nil(t, job)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_ListFiltersByUser(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewJobRepository(database)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .* FROM jobs WHERE user_id = \\$1 ORDER BY submitted_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(jobColumnNames).
			AddRow(jobRow("b", model.JobStatusReleased, 1, now)...).
			AddRow(jobRow("a", model.JobStatusPending, 0, now.Add(-time.Minute))...))

	jobs, err := repo.List(context.Background(), database, "u1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].ID)
	assert.Equal(t, model.JobStatusReleased, jobs[0].Status)

	mock.ExpectQuery("SELECT .* FROM jobs ORDER BY submitted_at DESC").
		WillReturnRows(sqlmock.NewRows(jobColumnNames))

	jobs, err = repo.List(context.Background(), database, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_MarkViewedIsConditional(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewJobRepository(database)
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE jobs\\s+SET view_count = 1").
		WithArgs("job-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE jobs\\s+SET view_count = 1").
		WithArgs("job-1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkViewed(context.Background(), database, "job-1", at)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkViewed(context.Background(), database, "job-1", at)
	require.NoError(t, err)
	assert.False(t, second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_MarkReleased(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewJobRepository(database)
	at := time.Now().UTC()
	printer := "printer-7"

	mock.ExpectExec("UPDATE jobs\\s+SET status = 'released'").
		WithArgs("job-1", at, printer, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkReleased(context.Background(), database, "job-1", at, &printer, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_BeginTX(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewJobRepository(database)
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs\\s+SET status = 'deleted'").
		WithArgs("job-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	exec, rollback, commit, err := repo.BeginTX(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.MarkDeleted(context.Background(), exec, "job-1", at))
	require.NoError(t, commit())
	_ = rollback()
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_DeleteByJobID(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectQuery("DELETE FROM documents\\s+WHERE job_id = \\$1\\s+RETURNING storage_key").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("documents/job-1"))
	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}))

	key, deleted, err := repo.DeleteByJobID(context.Background(), database, "job-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "documents/job-1", key)

	key, deleted, err = repo.DeleteByJobID(context.Background(), database, "job-1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetByJobID(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)
	created := time.Now().UTC()
	iv := make([]byte, model.IVSize)
	tag := make([]byte, model.AuthTagSize)

	columns := []string{"id", "job_id", "content", "storage_key", "mime_type", "filename", "size",
		"is_encrypted", "iv", "auth_tag", "created_at"}
	mock.ExpectQuery("SELECT .* FROM documents\\s+WHERE job_id = \\$1").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("doc-1", "job-1", []byte("cipher"), "", "application/pdf", "a.pdf", 6, true, iv, tag, created))
	mock.ExpectQuery("SELECT .* FROM documents").
		WithArgs("job-2").
		WillReturnRows(sqlmock.NewRows(columns))

	document, err := repo.GetByJobID(context.Background(), database, "job-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("cipher"), document.Content)
	assert.True(t, document.HasValidEnvelope())

	_, err = repo.GetByJobID(context.Background(), database, "job-2")
	assert.ErrorIs(t, err, model.ErrDocumentNotFound)
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestViewRepository_CreateAndList(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewViewRepository(database)
	viewedAt := time.Now().UTC()

	view := &model.JobView{ID: "v1", JobID: "job-1", UserID: "u1", UserAgent: "curl", IPAddress: "10.0.0.1", ViewedAt: viewedAt}
	mock.ExpectExec("INSERT INTO job_views").
		WithArgs("v1", "job-1", "u1", "curl", "10.0.0.1", viewedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT .* FROM job_views").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "user_id", "user_agent", "ip_address", "viewed_at"}).
			AddRow("v1", "job-1", "u1", "curl", "10.0.0.1", viewedAt))

	require.NoError(t, repo.Create(context.Background(), database, view))

	views, err := repo.ListByJobID(context.Background(), database, "job-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, *view, views[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Upsert(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewAnalysisRepository(database)
	created := time.Now().UTC()

	analysis := &model.DocumentAnalysis{ID: "a1", JobID: "job-1", Sha256: "abc", DetectedMime: "application/pdf",
		SizeBytes: 10, PageCount: 2, WordCount: 40, CreatedAt: created}
	mock.ExpectExec("INSERT INTO document_analysis .* ON CONFLICT \\(job_id\\) DO UPDATE").
		WithArgs("a1", "job-1", "abc", "application/pdf", int64(10), 2, 40, created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), database, analysis))
	require.NoError(t, mock.ExpectationsWereMet())
}
