package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"log"
	"net"
	"net/http"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	requestresponse "secure-print-release/internal/model/requestresponse"
	"secure-print-release/internal/ports"
	"secure-print-release/internal/util"
	"strconv"
	"strings"
	"time"
)

const (
	requestTimeout      = 30 * time.Second
	multipartMemory     = 1 << 20
	multipartOverhead   = 1 << 20
	viewMessage         = "Document viewed. This was your only view."
	releaseMessage      = "Job released for printing"
	completeMessage     = "Job marked as completed"
	decryptionFailedMsg = "decryption failed"
)

type JobHandler struct {
	ports.JobService
	uploads        *util.UploadStore
	server         *config.ServerConfig
	maxUploadBytes int64
}

func NewJobHandler(jobService ports.JobService, uploads *util.UploadStore, server *config.ServerConfig, jobs *config.JobsConfig) *JobHandler {
	return &JobHandler{jobService, uploads, server, jobs.MaxUploadBytes}
}

// SubmitJob godoc
// @Summary Submit a print job
// @Description Accepts multipart/form-data with an optional document and the print options.
// The document is encrypted at rest and a one-time release link is returned.
// @Tags PrintJobs
// @Accept multipart/form-data
// @Produce json
// @Param userId formData string true "Submitting user"
// @Param documentName formData string true "Display name"
// @Param pages formData int false "Pages, defaults to the analysed page count"
// @Param copies formData int false "Copies" default(1)
// @Param color formData bool false "Color print"
// @Param duplex formData bool false "Duplex print"
// @Param stapling formData bool false "Stapling"
// @Param priority formData string false "Priority" default(normal)
// @Param notes formData string false "Notes"
// @Param expirationDuration formData int false "Release link lifetime in minutes" default(15)
// @Param expiryHours formData int false "Durable expiry in hours" default(24)
// @Param file formData file false "Document"
// @Success 200 {object} requestresponse.SubmitJobResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Missing field or malformed form"
// @Failure 413 {object} requestresponse.ErrorResponse "Upload too large"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs [post]
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			writeError(w, model.ErrUploadTooLarge)
			return
		}
		util.HandleError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("[JobHandler] failed to remove multipart temp files: %v", err)
		}
	}()

	input, err := parseSubmitForm(r)
	if err != nil {
		util.HandleError(w, err.Error(), http.StatusBadRequest)
		return
	}
	input.PublicBaseURL = h.publicBase(r)

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		util.HandleError(w, "invalid file field", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		if header.Size > h.maxUploadBytes {
			writeError(w, model.ErrUploadTooLarge)
			return
		}

		path, size, err := h.uploads.Save(file, header.Filename)
		if err != nil {
			log.Printf("[JobHandler] failed to store upload: %v", err)
			util.HandleError(w, "failed to store upload", http.StatusInternalServerError)
			return
		}
		input.File = &model.UploadedFile{
			Path:     path,
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     size,
		}
	}

	job, err := h.JobService.Submit(ctx, input)
	if err != nil {
		writeError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SubmitJobResponse{
		Success: true,
		Job:     requestresponse.JobResponseFromModel(job),
	})
}

// ListJobs godoc
// @Summary List print jobs
// @Description Newest first, optionally filtered by user.
// @Tags PrintJobs
// @Produce json
// @Param userId query string false "Only jobs of this user"
// @Success 200 {object} requestresponse.ListJobsResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs [get]
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	jobs, err := h.JobService.ListJobs(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	response := requestresponse.ListJobsResponse{Jobs: make([]requestresponse.JobResponse, 0, len(jobs))}
	for i := range jobs {
		response.Jobs = append(response.Jobs, requestresponse.JobResponseFromModel(&jobs[i]))
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// GetJob godoc
// @Summary Fetch a job preview
// @Description Returns the job and its document as a data URL while the single view is still unspent.
// @Tags PrintJobs
// @Produce json
// @Param id path string true "Job id"
// @Param token query string true "Release token"
// @Success 200 {object} requestresponse.GetJobResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Invalid token or already viewed"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse "Link expired"
// @Router /api/print-jobs/{id} [get]
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	job, body, err := h.JobService.Fetch(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, err)
		return
	}

	response := requestresponse.JobResponseFromModel(job)
	response.Document = requestresponse.DocumentResponseFromBody(body)
	util.WriteJSON(w, http.StatusOK, requestresponse.GetJobResponse{Job: response})
}

// ViewJob godoc
// @Summary Spend the single view
// @Description Decrypts the document once. Every later view returns 403 with alreadyViewed.
// @Tags PrintJobs
// @Accept json
// @Produce json
// @Param id path string true "Job id"
// @Param request body requestresponse.ViewJobRequest true "Release token and viewer"
// @Success 200 {object} requestresponse.ViewJobResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Invalid token, already viewed or decryption failed"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse "Link expired"
// @Router /api/print-jobs/{id}/view [post]
func (h *JobHandler) ViewJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var request requestresponse.ViewJobRequest
	if !decodeBody(w, r, &request) {
		return
	}

	viewer := model.Viewer{
		UserID:    request.UserID,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}
	job, body, err := h.JobService.View(ctx, chi.URLParam(r, "id"), request.Token, viewer)
	if err != nil {
		writeError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ViewJobResponse{
		Success:       true,
		Document:      requestresponse.DocumentResponseFromBody(body),
		ViewCount:     job.ViewCount,
		FirstViewedAt: job.FirstViewedAt,
		Message:       viewMessage,
	})
}

// CreatePrintToken godoc
// @Summary Mint a print token
// @Description Single-use token, valid for 60 seconds, that authorizes one decrypted stream.
// @Tags PrintJobs
// @Accept json
// @Produce json
// @Param id path string true "Job id"
// @Param request body requestresponse.PrintTokenRequest true "Release token"
// @Success 200 {object} requestresponse.PrintTokenResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse "Too many requests from this address"
// @Router /api/print-jobs/{id}/print-token [post]
func (h *JobHandler) CreatePrintToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var request requestresponse.PrintTokenRequest
	if !decodeBody(w, r, &request) {
		return
	}

	printToken, err := h.JobService.MintPrintToken(ctx, chi.URLParam(r, "id"), request.Token, clientIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.PrintTokenResponse{
		Success:    true,
		PrintToken: printToken.Token,
		ExpiresAt:  printToken.ExpiresAt,
	})
}

// DecryptDocument godoc
// @Summary Stream the decrypted document
// @Description Consumes the print token and streams the plaintext. The response is never cached.
// @Tags PrintJobs
// @Produce octet-stream
// @Param jobId path string true "Job id"
// @Param printToken query string true "Print token"
// @Success 200 {file} binary
// @Failure 400 {object} requestresponse.ErrorResponse "Missing print token"
// @Failure 403 {object} requestresponse.ErrorResponse "Invalid, expired or used print token"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/decrypt/{jobId} [get]
func (h *JobHandler) DecryptDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	jobID := chi.URLParam(r, "jobId")
	headersSent := false
	err := h.JobService.StreamDecrypted(ctx, jobID, r.URL.Query().Get("printToken"), func(body *model.DocumentBody) error {
		mimeType := body.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, dispositionName(body.Filename)))
		w.Header().Set("Content-Length", strconv.Itoa(len(body.Content)))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		w.WriteHeader(http.StatusOK)
		headersSent = true

		_, err := w.Write(body.Content)
		return err
	})
	if err == nil {
		return
	}
	if headersSent {
		log.Printf("[JobHandler] stream of job %s aborted: %v", jobID, err)
		return
	}
	writeError(w, err)
}

// ReleaseJob godoc
// @Summary Release a job for printing
// @Description Requires a prior view. Destroys the stored document; a second release returns 409.
// @Tags PrintJobs
// @Accept json
// @Produce json
// @Param id path string true "Job id"
// @Param request body requestresponse.ReleaseJobRequest true "Release token and printer"
// @Success 200 {object} requestresponse.StatusResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Invalid token or requiresView"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Already released"
// @Failure 410 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/{id}/release [post]
func (h *JobHandler) ReleaseJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var request requestresponse.ReleaseJobRequest
	if !decodeBody(w, r, &request) {
		return
	}

	job, err := h.JobService.Release(ctx, chi.URLParam(r, "id"), request.Token, request.PrinterID, request.ReleasedBy)
	if err != nil {
		writeError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.StatusResponse{
		Success: true,
		Message: releaseMessage,
		Status:  job.Status,
	})
}

// CompleteJob godoc
// @Summary Mark a released job as completed
// @Tags PrintJobs
// @Produce json
// @Param id path string true "Job id"
// @Param Authorization header string false "Printer bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.StatusResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Job is not released"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/{id}/complete [post]
func (h *JobHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	job, err := h.JobService.Complete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.StatusResponse{
		Success: true,
		Message: completeMessage,
		Status:  job.Status,
	})
}

// ListJobViews godoc
// @Summary View audit log of a job
// @Tags PrintJobs
// @Produce json
// @Param id path string true "Job id"
// @Param Authorization header string false "Printer bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.JobViewsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/{id}/views [get]
func (h *JobHandler) ListJobViews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	views, err := h.JobService.ListViews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.JobViewsResponse{Views: views})
}

// ListExpired godoc
// @Summary Expired links not yet swept
// @Tags Cleanup
// @Produce json
// @Param Authorization header string false "Printer bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ExpiredJobsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/cleanup/expired [get]
func (h *JobHandler) ListExpired(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, requestresponse.ExpiredJobsResponse{Expired: h.JobService.ExpiredEntries()})
}

func parseSubmitForm(r *http.Request) (model.SubmitInput, error) {
	input := model.SubmitInput{
		UserID:       strings.TrimSpace(r.FormValue("userId")),
		DocumentName: strings.TrimSpace(r.FormValue("documentName")),
		Options: model.PrintOptions{
			Priority: strings.TrimSpace(r.FormValue("priority")),
			Notes:    r.FormValue("notes"),
			Color:    formBool(r.FormValue("color")),
			Duplex:   formBool(r.FormValue("duplex")),
			Stapling: formBool(r.FormValue("stapling")),
		},
	}

	var err error
	if input.Options.Pages, err = formInt(r, "pages"); err != nil {
		return input, err
	}
	if input.Options.Copies, err = formInt(r, "copies"); err != nil {
		return input, err
	}
	if input.ExpirationMinutes, err = formInt(r, "expirationDuration"); err != nil {
		return input, err
	}

	hours, err := formInt(r, "expiryHours")
	if err != nil {
		return input, err
	}
	if hours > 0 {
		input.ExpiryHours = &hours
	}

	return input, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", field)
	}
	return value, nil
}

// formBool : html checkboxes send "on"
func formBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		util.HandleError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large")
}

// publicBase : config, then Origin, then the forwarding proxy headers, then the request itself
func (h *JobHandler) publicBase(r *http.Request) string {
	if h.server != nil && h.server.PublicBaseURL != "" {
		return strings.TrimRight(h.server.PublicBaseURL, "/")
	}
	if origin := r.Header.Get("Origin"); origin != "" {
		return strings.TrimRight(origin, "/")
	}

	proto := r.Header.Get("X-Forwarded-Proto")
	host := r.Header.Get("X-Forwarded-Host")
	if proto != "" && host != "" {
		return firstHop(proto) + "://" + firstHop(host)
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := firstHop(forwarded); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func firstHop(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

func dispositionName(name string) string {
	if name == "" {
		return "document"
	}
	return strings.NewReplacer(`"`, "", `\`, "", "\r", "", "\n", "").Replace(name)
}

var statusTable = []struct {
	err    error
	status int
}{
	{model.ErrValidationMissing, http.StatusBadRequest},
	{model.ErrUploadTooLarge, http.StatusRequestEntityTooLarge},
	{model.ErrInvalidTransition, http.StatusBadRequest},
	{model.ErrTokenInvalid, http.StatusForbidden},
	{model.ErrAlreadyViewed, http.StatusForbidden},
	{model.ErrRequiresView, http.StatusForbidden},
	{model.ErrPrintTokenMissing, http.StatusBadRequest},
	{model.ErrPrintTokenInvalid, http.StatusForbidden},
	{model.ErrPrintTokenExpired, http.StatusForbidden},
	{model.ErrPrintTokenUsed, http.StatusForbidden},
	{model.ErrRateLimited, http.StatusTooManyRequests},
	{model.ErrCryptoAuth, http.StatusForbidden},
	{model.ErrCryptoShape, http.StatusForbidden},
	{model.ErrNotFound, http.StatusNotFound},
	{model.ErrAlreadyReleased, http.StatusConflict},
	{model.ErrLinkExpired, http.StatusGone},
	{model.ErrUnauthorizedPrinter, http.StatusUnauthorized},
}

func statusFor(err error) int {
	for _, entry := range statusTable {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	switch {
	case status == http.StatusInternalServerError:
		log.Printf("[JobHandler] unhandled error: %v", err)
		util.HandleError(w, "internal server error", status)
	case errors.Is(err, model.ErrAlreadyViewed):
		viewCount := 1
		var viewed *model.AlreadyViewedError
		if errors.As(err, &viewed) {
			viewCount = viewed.ViewCount
		}
		util.HandleErrorWithFields(w, model.ErrAlreadyViewed.Error(), status, map[string]interface{}{
			"alreadyViewed": true,
			"viewCount":     viewCount,
		})
	case errors.Is(err, model.ErrRequiresView):
		util.HandleErrorWithFields(w, model.ErrRequiresView.Error(), status, map[string]interface{}{
			"requiresView": true,
		})
	case errors.Is(err, model.ErrCryptoAuth), errors.Is(err, model.ErrCryptoShape):
		util.HandleError(w, decryptionFailedMsg, status)
	default:
		util.HandleError(w, err.Error(), status)
	}
}
