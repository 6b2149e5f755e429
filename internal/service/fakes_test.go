package service_test

import (
	"context"
	"errors"
	"github.com/jmoiron/sqlx"
	"secure-print-release/internal/model"
	"secure-print-release/internal/ports"
	"sort"
	"sync"
	"time"
)

// fakeStore : in-memory stand-in for the four tables. Updates and deletes are journaled
// so an uncommitted transaction rolls back; one writer at a time.
type fakeStore struct {
	mu        sync.Mutex
	jobs      map[string]model.Job
	documents map[string]model.Document
	views     []model.JobView
	analysis  map[string]model.DocumentAnalysis
	undo      []func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:      make(map[string]model.Job),
		documents: make(map[string]model.Document),
		analysis:  make(map[string]model.DocumentAnalysis),
	}
}

func (s *fakeStore) repositories() ports.Repositories {
	return ports.Repositories{
		Jobs:      &fakeJobs{s},
		Documents: &fakeDocuments{s},
		Views:     &fakeViews{s},
		Analysis:  &fakeAnalysis{s},
	}
}

func (s *fakeStore) job(id string) (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *fakeStore) document(jobID string) (model.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document, ok := s.documents[jobID]
	return document, ok
}

func (s *fakeStore) tamper(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document := s.documents[jobID]
	content := append([]byte(nil), document.Content...)
	content[0] ^= 0x01
	document.Content = content
	s.documents[jobID] = document
}

func (s *fakeStore) dropDocument(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, jobID)
}

func (s *fakeStore) viewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

type fakeJobs struct{ *fakeStore }

func (r *fakeJobs) Create(_ context.Context, _ sqlx.ExtContext, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobs) GetByID(_ context.Context, _ sqlx.ExtContext, id string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &job, nil
}

func (r *fakeJobs) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*model.Job, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeJobs) List(_ context.Context, _ sqlx.ExtContext, userID string) ([]model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := []model.Job{}
	for _, job := range r.jobs {
		if userID == "" || job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt) })
	return jobs, nil
}

func (r *fakeJobs) MarkViewed(_ context.Context, _ sqlx.ExtContext, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.ViewCount != 0 || job.Status != model.JobStatusPending {
		return false, nil
	}
	r.journalJob(job)
	job.ViewCount = 1
	if job.FirstViewedAt == nil {
		job.FirstViewedAt = &at
	}
	job.LastViewedAt = &at
	r.jobs[id] = job
	return true, nil
}

func (r *fakeJobs) MarkReleased(_ context.Context, _ sqlx.ExtContext, id string, at time.Time, printerID, releasedBy *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != model.JobStatusPending || job.ViewCount != 1 {
		return false, nil
	}
	r.journalJob(job)
	job.Status = model.JobStatusReleased
	job.ReleasedAt = &at
	job.PrinterID = printerID
	job.ReleasedBy = releasedBy
	r.jobs[id] = job
	return true, nil
}

func (r *fakeJobs) MarkCompleted(_ context.Context, _ sqlx.ExtContext, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != model.JobStatusReleased {
		return false, nil
	}
	r.journalJob(job)
	job.Status = model.JobStatusCompleted
	job.CompletedAt = &at
	r.jobs[id] = job
	return true, nil
}

func (r *fakeJobs) MarkDeleted(_ context.Context, _ sqlx.ExtContext, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status == model.JobStatusDeleted {
		return nil
	}
	r.journalJob(job)
	job.Status = model.JobStatusDeleted
	job.DeletedAt = &at
	r.jobs[id] = job
	return nil
}

func (r *fakeJobs) BeginTX(context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	done := false
	commit := func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.undo = nil
		done = true
		return nil
	}
	rollback := func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		if done {
			return nil
		}
		for i := len(r.undo) - 1; i >= 0; i-- {
			r.undo[i]()
		}
		r.undo = nil
		done = true
		return nil
	}
	return nil, rollback, commit, nil
}

// journalJob : caller holds mu
func (s *fakeStore) journalJob(previous model.Job) {
	s.undo = append(s.undo, func() { s.jobs[previous.ID] = previous })
}

type fakeDocuments struct{ *fakeStore }

func (r *fakeDocuments) Create(_ context.Context, _ sqlx.ExtContext, document *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[document.JobID] = *document
	return nil
}

func (r *fakeDocuments) GetByJobID(_ context.Context, _ sqlx.ExtContext, jobID string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	document, ok := r.documents[jobID]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	return &document, nil
}

func (r *fakeDocuments) DeleteByJobID(_ context.Context, _ sqlx.ExtContext, jobID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	document, ok := r.documents[jobID]
	if !ok {
		return "", false, nil
	}
	r.undo = append(r.undo, func() { r.documents[jobID] = document })
	delete(r.documents, jobID)
	return document.StorageKey, true, nil
}

type fakeViews struct{ *fakeStore }

func (r *fakeViews) Create(_ context.Context, _ sqlx.ExtContext, view *model.JobView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.views)
	r.undo = append(r.undo, func() { r.views = r.views[:n] })
	r.views = append(r.views, *view)
	return nil
}

func (r *fakeViews) ListByJobID(_ context.Context, _ sqlx.ExtContext, jobID string) ([]model.JobView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	views := []model.JobView{}
	for _, view := range r.views {
		if view.JobID == jobID {
			views = append(views, view)
		}
	}
	return views, nil
}

type fakeAnalysis struct{ *fakeStore }

func (r *fakeAnalysis) Upsert(_ context.Context, _ sqlx.ExtContext, analysis *model.DocumentAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analysis[analysis.JobID] = *analysis
	return nil
}

func (r *fakeAnalysis) GetByJobID(_ context.Context, _ sqlx.ExtContext, jobID string) (*model.DocumentAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analysis[jobID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &analysis, nil
}

// fakeBlobs : S3 stand-in
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (b *fakeBlobs) PutObject(_ context.Context, key string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = append([]byte(nil), body...)
	return nil
}

func (b *fakeBlobs) GetObject(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return append([]byte(nil), body...), nil
}

func (b *fakeBlobs) DeleteObject(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeCache : keeps whatever it was last given; failSet and failDelete make the writes error
type fakeCache struct {
	mu         sync.Mutex
	jobs       map[string]model.Job
	failSet    bool
	failDelete bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{jobs: make(map[string]model.Job)}
}

func (c *fakeCache) SetJob(_ context.Context, job *model.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("cache unavailable")
	}
	c.jobs[job.ID] = *job
	return nil
}

func (c *fakeCache) GetJob(_ context.Context, id string) (*model.Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (c *fakeCache) DeleteJob(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failDelete {
		return errors.New("cache unavailable")
	}
	delete(c.jobs, id)
	return nil
}

func (c *fakeCache) setFailures(set, del bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failSet = set
	c.failDelete = del
}
