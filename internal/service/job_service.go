package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"log"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	"secure-print-release/internal/ports"
	"secure-print-release/internal/registry"
	"secure-print-release/internal/security"
	"secure-print-release/internal/util"
	"strings"
	"time"
)

const defaultPriority = "normal"

// JobService : the print job state machine. Every operation on an id runs while holding that id in the active set.
type JobService struct {
	repos    ports.Repositories
	cache    ports.JobCache
	blobs    ports.BlobStorage
	envelope ports.Envelope
	analyzer ports.DocumentAnalyzer
	uploads  *util.UploadStore
	registry *registry.Registry
	cfg      config.JobsConfig
	baseCost decimal.Decimal
	now      func() time.Time
}

// NewJobService : blobs may be nil, ciphertext then stays in the documents table
func NewJobService(
	repos ports.Repositories,
	cache ports.JobCache,
	blobs ports.BlobStorage,
	envelope ports.Envelope,
	analyzer ports.DocumentAnalyzer,
	uploads *util.UploadStore,
	reg *registry.Registry,
	cfg config.JobsConfig,
	now func() time.Time,
) (*JobService, error) {
	cfg.ApplyDefaults()

	baseCost, err := decimal.NewFromString(cfg.BaseCost)
	if err != nil {
		return nil, fmt.Errorf("invalid base cost %q: %w", cfg.BaseCost, err)
	}
	if now == nil {
		now = time.Now
	}

	return &JobService{
		repos:    repos,
		cache:    cache,
		blobs:    blobs,
		envelope: envelope,
		analyzer: analyzer,
		uploads:  uploads,
		registry: reg,
		cfg:      cfg,
		baseCost: baseCost,
		now:      now,
	}, nil
}

// ReleaseLink : <publicBase>/release/<id>?token=<secureToken>
func ReleaseLink(publicBase, id, token string) string {
	return fmt.Sprintf("%s/release/%s?token=%s", strings.TrimRight(publicBase, "/"), id, token)
}

// Submit : persists the job (and its sealed document), then registers the release link
func (s *JobService) Submit(ctx context.Context, input model.SubmitInput) (*model.Job, error) {
	if strings.TrimSpace(input.UserID) == "" {
		s.discardUpload(input.File)
		return nil, fmt.Errorf("%w: userId", model.ErrValidationMissing)
	}
	if strings.TrimSpace(input.DocumentName) == "" {
		s.discardUpload(input.File)
		return nil, fmt.Errorf("%w: documentName", model.ErrValidationMissing)
	}

	id, err := util.GenerateJobID()
	if err != nil {
		s.discardUpload(input.File)
		return nil, err
	}
	token, err := util.GenerateReleaseToken()
	if err != nil {
		s.discardUpload(input.File)
		return nil, err
	}

	now := s.now()
	options := input.Options
	if options.Copies <= 0 {
		options.Copies = 1
	}
	if options.Priority == "" {
		options.Priority = defaultPriority
	}

	expirationMinutes := input.ExpirationMinutes
	if expirationMinutes <= 0 {
		expirationMinutes = s.cfg.DefaultExpirationMinutes
	}
	expiryHours := input.ExpiryHours
	if expiryHours != nil && *expiryHours <= 0 {
		expiryHours = nil
	}

	var (
		document *model.Document
		analysis *model.DocumentAnalysis
		metadata = model.Metadata{
			ExpiresAt: now.Add(time.Duration(expirationMinutes) * time.Minute),
			CreatedAt: now,
			Token:     token,
			Status:    model.JobStatusPending,
		}
	)

	if input.File != nil {
		document, analysis, err = s.sealUpload(ctx, id, input.File, now)
		if err != nil {
			s.discardUpload(input.File)
			return nil, err
		}
		metadata.FilePath = input.File.Path
		metadata.MimeType = document.MimeType
		metadata.OriginalName = document.Filename

		if options.Pages <= 0 && analysis != nil && analysis.PageCount > 0 {
			options.Pages = analysis.PageCount
		}
	}
	if options.Pages <= 0 {
		options.Pages = 1
	}

	job := &model.Job{
		ID:           id,
		UserID:       input.UserID,
		DocumentName: input.DocumentName,
		PrintOptions: options,
		Status:       model.JobStatusPending,
		Cost:         model.CalculateCost(s.baseCost, options),
		SubmittedAt:  now,
		SecureToken:  token,
		ReleaseLink:  ReleaseLink(input.PublicBaseURL, id, token),
		ExpiresAt:    metadata.ExpiresAt,
		ExpiryHours:  expiryHours,
	}

	if err := s.persistSubmission(ctx, job, document, analysis); err != nil {
		if document != nil && document.StorageKey != "" {
			s.deleteBlob(context.WithoutCancel(ctx), document.StorageKey)
		}
		s.discardUpload(input.File)
		return nil, err
	}

	// the job is already durable, the link must be registered even if the client went away
	release, err := s.registry.Active.Acquire(context.WithoutCancel(ctx), id)
	if err != nil {
		return nil, err
	}
	s.registry.Metadata.Put(id, metadata)
	release()

	s.cacheJob(ctx, job)

	size := uint64(0)
	if document != nil {
		size = uint64(document.Size)
	}
	log.Printf("[JobService] job %s submitted by %s (%s, cost %s, expires %s)",
		id, input.UserID, humanize.Bytes(size), job.Cost.StringFixed(2), job.ExpiresAt.Format(time.RFC3339))

	return job, nil
}

// sealUpload : reads the temp file, analyses the plaintext and seals it
func (s *JobService) sealUpload(ctx context.Context, jobID string, file *model.UploadedFile, now time.Time) (*model.Document, *model.DocumentAnalysis, error) {
	content, err := s.uploads.Read(file.Path)
	if err != nil {
		return nil, nil, util.LogError("[JobService] failed to read upload", err)
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes {
		return nil, nil, fmt.Errorf("%w: %s", model.ErrUploadTooLarge, humanize.Bytes(uint64(len(content))))
	}

	mimeType := ResolveMimeType(file.MimeType, content)

	var analysis *model.DocumentAnalysis
	if s.analyzer != nil {
		analysis, err = s.analyzer.Analyze(content, mimeType)
		if err != nil {
			log.Printf("[JobService] analysis of job %s incomplete: %v", jobID, err)
		}
		if analysis != nil {
			analysis.ID = uuid.New().String()
			analysis.JobID = jobID
			analysis.CreatedAt = now
		}
	}

	ciphertext, iv, tag, err := s.envelope.Seal(content)
	if err != nil {
		return nil, nil, util.LogError("[JobService] failed to encrypt document", err)
	}

	document := &model.Document{
		ID:          uuid.New().String(),
		JobID:       jobID,
		Content:     ciphertext,
		MimeType:    mimeType,
		Filename:    file.Filename,
		Size:        int64(len(content)),
		IsEncrypted: true,
		IV:          iv,
		AuthTag:     tag,
		CreatedAt:   now,
	}

	if s.blobs != nil {
		key := documentStorageKey(jobID)
		if err := s.blobs.PutObject(ctx, key, ciphertext); err != nil {
			return nil, nil, err
		}
		document.Content = nil
		document.StorageKey = key
	}

	return document, analysis, nil
}

func (s *JobService) persistSubmission(ctx context.Context, job *model.Job, document *model.Document, analysis *model.DocumentAnalysis) error {
	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return util.LogError("[JobService] failed to begin transaction", err)
	}
	defer rollback()

	if err := s.repos.Jobs.Create(ctx, exec, job); err != nil {
		return util.LogError("[JobService] failed to save job", err)
	}
	if document != nil {
		if err := s.repos.Documents.Create(ctx, exec, document); err != nil {
			return util.LogError("[JobService] failed to save document", err)
		}
	}
	if analysis != nil {
		if err := s.repos.Analysis.Upsert(ctx, exec, analysis); err != nil {
			return util.LogError("[JobService] failed to save document analysis", err)
		}
	}

	if err := commit(); err != nil {
		return util.LogError("[JobService] failed to commit transaction", err)
	}
	return nil
}

// Fetch : preview read, does not spend the view
func (s *JobService) Fetch(ctx context.Context, id, token string) (*model.Job, *model.DocumentBody, error) {
	release, err := s.registry.Active.Acquire(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	metadata, err := s.checkLink(ctx, id, token)
	if err != nil {
		return nil, nil, err
	}

	var (
		job  *model.Job
		body *model.DocumentBody
	)
	err = s.read(ctx, func(exec sqlx.ExtContext) error {
		var err error
		job, err = s.repos.Jobs.GetByID(ctx, exec, id)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return model.ErrLinkExpired
		}
		if job.ViewCount > 0 {
			return &model.AlreadyViewedError{ViewCount: job.ViewCount}
		}
		body, err = s.loadBody(ctx, exec, id, metadata, "-")
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return job, body, nil
}

// View : spends the single view and returns the decrypted document
func (s *JobService) View(ctx context.Context, id, token string, viewer model.Viewer) (*model.Job, *model.DocumentBody, error) {
	release, err := s.registry.Active.Acquire(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	metadata, err := s.checkLink(ctx, id, token)
	if err != nil {
		return nil, nil, err
	}

	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return nil, nil, util.LogError("[JobService] failed to begin transaction", err)
	}
	defer rollback()

	job, err := s.repos.Jobs.GetByIDForUpdate(ctx, exec, id)
	if err != nil {
		return nil, nil, err
	}
	if job.IsTerminal() {
		return nil, nil, model.ErrLinkExpired
	}
	if job.ViewCount > 0 {
		return nil, nil, &model.AlreadyViewedError{ViewCount: job.ViewCount}
	}

	// decrypt before spending the view, a tampered document must not burn it
	body, err := s.loadBody(ctx, exec, id, metadata, viewer.IPAddress)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	viewed, err := s.repos.Jobs.MarkViewed(ctx, exec, id, now)
	if err != nil {
		return nil, nil, util.LogError("[JobService] failed to mark job viewed", err)
	}
	if !viewed {
		return nil, nil, &model.AlreadyViewedError{ViewCount: 1}
	}

	view := &model.JobView{
		ID:        uuid.New().String(),
		JobID:     id,
		UserID:    viewer.UserID,
		UserAgent: viewer.UserAgent,
		IPAddress: viewer.IPAddress,
		ViewedAt:  now,
	}
	if err := s.repos.Views.Create(ctx, exec, view); err != nil {
		return nil, nil, util.LogError("[JobService] failed to record view", err)
	}
	if err := s.evictJob(ctx, id); err != nil {
		return nil, nil, err
	}

	if err := commit(); err != nil {
		return nil, nil, util.LogError("[JobService] failed to commit transaction", err)
	}

	job.ViewCount = 1
	if job.FirstViewedAt == nil {
		job.FirstViewedAt = &now
	}
	job.LastViewedAt = &now

	s.registry.Metadata.Update(id, func(m *model.Metadata) {
		m.ViewCount = 1
		if m.FirstViewedAt == nil {
			m.FirstViewedAt = &now
		}
	})
	s.cacheJob(ctx, job)

	log.Printf("[JobService] job %s viewed by %q from %s", id, viewer.UserID, viewer.IPAddress)
	return job, body, nil
}

// MintPrintToken : every call counts against the caller's rate limit, successful or not
func (s *JobService) MintPrintToken(ctx context.Context, id, token, clientIP string) (*model.PrintToken, error) {
	if !s.registry.RateLimiter.Allow(clientIP) {
		log.Printf("[JobService] print token rate limit hit by %s", clientIP)
		return nil, model.ErrRateLimited
	}

	release, err := s.registry.Active.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	job, err := s.currentJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !util.TokensEqual(token, job.SecureToken) {
		return nil, model.ErrTokenInvalid
	}
	if err := s.checkDeadline(ctx, job); err != nil {
		return nil, err
	}

	printToken, err := s.registry.PrintTokens.Mint(id, clientIP)
	if err != nil {
		return nil, err
	}

	log.Printf("[JobService] print token minted for job %s (%s)", id, clientIP)
	return printToken, nil
}

// StreamDecrypted : the print token is spent before any work and dropped once write returns
func (s *JobService) StreamDecrypted(ctx context.Context, jobID, printToken string, write func(body *model.DocumentBody) error) error {
	if err := s.registry.PrintTokens.Consume(jobID, printToken); err != nil {
		return err
	}
	defer s.registry.PrintTokens.Finish(jobID, printToken)

	release, err := s.registry.Active.Acquire(ctx, jobID)
	if err != nil {
		return err
	}
	defer release()

	job, err := s.currentJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := s.checkDeadline(ctx, job); err != nil {
		return err
	}

	var body *model.DocumentBody
	err = s.read(ctx, func(exec sqlx.ExtContext) error {
		document, err := s.repos.Documents.GetByJobID(ctx, exec, jobID)
		if err != nil {
			return err
		}
		body, err = s.openDocument(ctx, document, "-")
		return err
	})
	if err != nil {
		return err
	}

	if body.MimeType == "application/pdf" && !security.IsValidPDF(body.Content) {
		log.Printf("[JobService] AUDIT decrypted job=%s is not a valid PDF, refusing to stream", jobID)
		return model.ErrCryptoAuth
	}

	if err := write(body); err != nil {
		return fmt.Errorf("failed to stream job %s: %w", jobID, err)
	}

	log.Printf("[JobService] streamed job %s (%s)", jobID, humanize.Bytes(uint64(len(body.Content))))
	return nil
}

// Release : destroys the stored ciphertext; only a viewed, pending job can be released
func (s *JobService) Release(ctx context.Context, id, token string, printerID, releasedBy *string) (*model.Job, error) {
	release, err := s.registry.Active.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.checkLink(ctx, id, token); err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[JobService] failed to begin transaction", err)
	}
	defer rollback()

	job, err := s.repos.Jobs.GetByIDForUpdate(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	switch {
	case job.IsTerminal():
		return nil, model.ErrLinkExpired
	case job.Status == model.JobStatusReleased || job.Status == model.JobStatusCompleted:
		return nil, model.ErrAlreadyReleased
	case job.ViewCount == 0:
		return nil, model.ErrRequiresView
	}

	now := s.now()
	released, err := s.repos.Jobs.MarkReleased(ctx, exec, id, now, printerID, releasedBy)
	if err != nil {
		return nil, util.LogError("[JobService] failed to release job", err)
	}
	if !released {
		return nil, model.ErrInvalidTransition
	}

	storageKey, _, err := s.repos.Documents.DeleteByJobID(ctx, exec, id)
	if err != nil {
		return nil, util.LogError("[JobService] failed to delete document", err)
	}
	if err := s.evictJob(ctx, id); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[JobService] failed to commit transaction", err)
	}

	if storageKey != "" {
		s.deleteBlob(ctx, storageKey)
	}

	job.Status = model.JobStatusReleased
	job.ReleasedAt = &now
	job.PrinterID = printerID
	job.ReleasedBy = releasedBy

	s.registry.Metadata.Update(id, func(m *model.Metadata) {
		m.Status = model.JobStatusReleased
	})
	s.registry.PrintTokens.Revoke(id)
	s.cacheJob(ctx, job)

	log.Printf("[JobService] job %s released, document destroyed", id)
	return job, nil
}

func (s *JobService) Complete(ctx context.Context, id string) (*model.Job, error) {
	release, err := s.registry.Active.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[JobService] failed to begin transaction", err)
	}
	defer rollback()

	job, err := s.repos.Jobs.GetByIDForUpdate(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusReleased {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, job.Status, model.JobStatusCompleted)
	}

	now := s.now()
	completed, err := s.repos.Jobs.MarkCompleted(ctx, exec, id, now)
	if err != nil {
		return nil, util.LogError("[JobService] failed to complete job", err)
	}
	if !completed {
		return nil, model.ErrInvalidTransition
	}
	if err := s.evictJob(ctx, id); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[JobService] failed to commit transaction", err)
	}

	job.Status = model.JobStatusCompleted
	job.CompletedAt = &now

	s.registry.Metadata.Update(id, func(m *model.Metadata) {
		m.Status = model.JobStatusCompleted
	})
	s.cacheJob(ctx, job)

	log.Printf("[JobService] job %s completed", id)
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, userID string) ([]model.Job, error) {
	var jobs []model.Job
	err := s.read(ctx, func(exec sqlx.ExtContext) error {
		var err error
		jobs, err = s.repos.Jobs.List(ctx, exec, userID)
		return err
	})
	if err != nil {
		return nil, util.LogError("[JobService] failed to list jobs", err)
	}
	return jobs, nil
}

func (s *JobService) ListViews(ctx context.Context, id string) ([]model.JobView, error) {
	if _, err := s.loadJob(ctx, id); err != nil {
		return nil, err
	}

	var views []model.JobView
	err := s.read(ctx, func(exec sqlx.ExtContext) error {
		var err error
		views, err = s.repos.Views.ListByJobID(ctx, exec, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ExpiredEntries : links past their deadline that the cleanup loop has not swept yet
func (s *JobService) ExpiredEntries() []model.ExpiredEntry {
	entries := s.registry.Metadata.Expired(s.now())

	expired := make([]model.ExpiredEntry, 0, len(entries))
	for _, entry := range entries {
		expired = append(expired, model.ExpiredEntry{
			ID:            entry.ID,
			ExpiredAt:     entry.ExpiresAt,
			OriginalToken: util.MaskToken(entry.Token),
		})
	}
	return expired
}

// SweepExpired : evicts every expired link whose id is not held by a handler, returns how many were evicted
func (s *JobService) SweepExpired(ctx context.Context) int {
	evicted := 0
	for _, entry := range s.registry.Metadata.Expired(s.now()) {
		release, ok := s.registry.Active.TryAcquire(entry.ID)
		if !ok {
			log.Printf("[Cleanup] job %s is busy, skipping", entry.ID)
			continue
		}

		if err := s.expireLocked(ctx, entry.ID); err != nil {
			log.Printf("[Cleanup] failed to expire job %s: %v", entry.ID, err)
		} else {
			evicted++
		}
		release()
	}

	s.registry.PrintTokens.Prune()
	s.registry.RateLimiter.Prune()
	return evicted
}

// expireLocked : caller holds id in the active set. Every step tolerates work already done.
func (s *JobService) expireLocked(ctx context.Context, id string) error {
	now := s.now()

	if metadata, ok := s.registry.Metadata.Get(id); ok {
		if err := s.uploads.Remove(metadata.FilePath); err != nil {
			log.Printf("[Cleanup] failed to remove temp file of job %s: %v", id, err)
		}
	}

	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return util.LogError("[Cleanup] failed to begin transaction", err)
	}
	defer rollback()

	if err := s.repos.Jobs.MarkDeleted(ctx, exec, id, now); err != nil {
		return util.LogError("[Cleanup] failed to mark job deleted", err)
	}
	storageKey, _, err := s.repos.Documents.DeleteByJobID(ctx, exec, id)
	if err != nil {
		return util.LogError("[Cleanup] failed to delete document", err)
	}
	if err := s.evictJob(ctx, id); err != nil {
		return err
	}
	if err := commit(); err != nil {
		return util.LogError("[Cleanup] failed to commit transaction", err)
	}

	s.registry.Metadata.Delete(id)
	s.registry.PrintTokens.Revoke(id)
	if storageKey != "" {
		s.deleteBlob(ctx, storageKey)
	}

	log.Printf("[Cleanup] job %s expired and deleted", id)
	return nil
}

// checkLink : release token and expiry against the in-memory link state, expiring lazily
func (s *JobService) checkLink(ctx context.Context, id, token string) (model.Metadata, error) {
	metadata, ok := s.registry.Metadata.Get(id)
	if !ok {
		return model.Metadata{}, s.missingLinkError(ctx, id, token)
	}
	if !util.TokensEqual(token, metadata.Token) {
		return model.Metadata{}, model.ErrTokenInvalid
	}
	if !s.now().Before(metadata.ExpiresAt) {
		if err := s.expireLocked(ctx, id); err != nil {
			log.Printf("[JobService] lazy expiry of job %s failed: %v", id, err)
		}
		return model.Metadata{}, model.ErrLinkExpired
	}
	return metadata, nil
}

// missingLinkError : a swept link answers 410, anything else without link state is an invalid token
func (s *JobService) missingLinkError(ctx context.Context, id, token string) error {
	job, err := s.currentJob(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrTokenInvalid
	}
	if err != nil {
		return err
	}
	if !util.TokensEqual(token, job.SecureToken) {
		return model.ErrTokenInvalid
	}
	if job.IsTerminal() || !s.now().Before(job.DurableDeadline(s.cfg.DefaultExpiryHours)) {
		return model.ErrLinkExpired
	}
	return model.ErrTokenInvalid
}

// checkDeadline : the in-memory deadline wins while the process runs, the durable one covers the rest
func (s *JobService) checkDeadline(ctx context.Context, job *model.Job) error {
	if job.IsTerminal() {
		return model.ErrLinkExpired
	}

	metadata, ok := s.registry.Metadata.Get(job.ID)
	deadline := job.DurableDeadline(s.cfg.DefaultExpiryHours)
	if ok {
		deadline = metadata.ExpiresAt
	}
	if s.now().Before(deadline) {
		return nil
	}

	if ok {
		if err := s.expireLocked(ctx, job.ID); err != nil {
			log.Printf("[JobService] lazy expiry of job %s failed: %v", job.ID, err)
		}
	}
	return model.ErrLinkExpired
}

// loadBody : the sealed document row, else the raw temp file, else nothing
func (s *JobService) loadBody(ctx context.Context, exec sqlx.ExtContext, jobID string, metadata model.Metadata, clientIP string) (*model.DocumentBody, error) {
	document, err := s.repos.Documents.GetByJobID(ctx, exec, jobID)
	if err == nil {
		return s.openDocument(ctx, document, clientIP)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, util.LogError("[JobService] failed to load document", err)
	}

	if !s.uploads.Exists(metadata.FilePath) {
		return nil, nil
	}
	content, err := s.uploads.Read(metadata.FilePath)
	if err != nil {
		return nil, util.LogError("[JobService] failed to read temp file", err)
	}
	return &model.DocumentBody{
		Content:  content,
		MimeType: metadata.MimeType,
		Filename: metadata.OriginalName,
	}, nil
}

func (s *JobService) openDocument(ctx context.Context, document *model.Document, clientIP string) (*model.DocumentBody, error) {
	if !document.HasValidEnvelope() {
		log.Printf("[JobService] AUDIT malformed envelope job=%s ip=%s", document.JobID, clientIP)
		return nil, model.ErrCryptoShape
	}

	content := document.Content
	if document.StorageKey != "" {
		if s.blobs == nil {
			return nil, fmt.Errorf("document of job %s is stored in S3 but no bucket is configured", document.JobID)
		}
		var err error
		content, err = s.blobs.GetObject(ctx, document.StorageKey)
		if err != nil {
			return nil, err
		}
	}

	if document.IsEncrypted {
		plaintext, err := s.envelope.Open(content, document.IV, document.AuthTag)
		if err != nil {
			log.Printf("[JobService] AUDIT decryption failed job=%s ip=%s: %v", document.JobID, clientIP, err)
			return nil, err
		}
		content = plaintext
	}

	return &model.DocumentBody{
		Content:  content,
		MimeType: document.MimeType,
		Filename: document.Filename,
	}, nil
}

// loadJob : Redis first, then the jobs table. Display reads only, access checks go through currentJob
func (s *JobService) loadJob(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.cache.GetJob(ctx, id)
	if err != nil {
		log.Printf("[JobService] cache read failed: %v", err)
	}
	if job != nil {
		return job, nil
	}

	err = s.read(ctx, func(exec sqlx.ExtContext) error {
		var err error
		job, err = s.repos.Jobs.GetByID(ctx, exec, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cacheJob(ctx, job)
	return job, nil
}

// currentJob : the committed jobs row, never the cached copy
func (s *JobService) currentJob(ctx context.Context, id string) (*model.Job, error) {
	var job *model.Job
	err := s.read(ctx, func(exec sqlx.ExtContext) error {
		var err error
		job, err = s.repos.Jobs.GetByID(ctx, exec, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) read(ctx context.Context, fn func(exec sqlx.ExtContext) error) error {
	exec, rollback, commit, err := s.repos.Jobs.BeginTX(ctx)
	if err != nil {
		return util.LogError("[JobService] failed to begin transaction", err)
	}
	defer rollback()

	if err := fn(exec); err != nil {
		return err
	}
	return commit()
}

func (s *JobService) cacheJob(ctx context.Context, job *model.Job) {
	if err := s.cache.SetJob(ctx, job); err != nil {
		log.Printf("[JobService] failed to cache job %s: %v", job.ID, err)
	}
}

// evictJob : runs inside the state-changing transaction, a failed eviction rolls the change back
func (s *JobService) evictJob(ctx context.Context, id string) error {
	if err := s.cache.DeleteJob(ctx, id); err != nil {
		return util.LogError("[JobService] failed to evict cached job", err)
	}
	return nil
}

func (s *JobService) deleteBlob(ctx context.Context, key string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.DeleteObject(ctx, key); err != nil {
		log.Printf("[JobService] failed to delete blob %s: %v", key, err)
	}
}

func (s *JobService) discardUpload(file *model.UploadedFile) {
	if file == nil {
		return
	}
	if err := s.uploads.Remove(file.Path); err != nil {
		log.Printf("[JobService] failed to remove temp file %s: %v", file.Path, err)
	}
}
