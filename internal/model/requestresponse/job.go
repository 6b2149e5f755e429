package requestresponse

import (
	"encoding/base64"
	"encoding/json"
	"secure-print-release/internal/model"
	"time"
)

// JobResponse : print job as exposed to clients
type JobResponse struct {
	ID            string            `json:"id" example:"V1StGXR8_Z5jdHi6B-myT"`
	UserID        string            `json:"userId" example:"user-42"`
	DocumentName  string            `json:"documentName" example:"report.pdf"`
	Pages         int               `json:"pages" example:"1"`
	Copies        int               `json:"copies" example:"1"`
	Color         bool              `json:"color" example:"false"`
	Duplex        bool              `json:"duplex" example:"false"`
	Stapling      bool              `json:"stapling" example:"false"`
	Priority      string            `json:"priority" example:"normal"`
	Notes         string            `json:"notes,omitempty"`
	Status        model.JobStatus   `json:"status" example:"pending"`
	Cost          json.Number       `json:"cost" swaggertype:"number" example:"0.10"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	ReleasedAt    *time.Time        `json:"releasedAt,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
	DeletedAt     *time.Time        `json:"deletedAt,omitempty"`
	FirstViewedAt *time.Time        `json:"firstViewedAt,omitempty"`
	LastViewedAt  *time.Time        `json:"lastViewedAt,omitempty"`
	ReleaseLink   string            `json:"releaseLink" example:"https://print.example.com/release/V1StGXR8_Z5jdHi6B-myT?token=abc"`
	ExpiresAt     time.Time         `json:"expiresAt"`
	ViewCount     int               `json:"viewCount" example:"0"`
	PrinterID     *string           `json:"printerId,omitempty"`
	ReleasedBy    *string           `json:"releasedBy,omitempty"`
	Document      *DocumentResponse `json:"document,omitempty"`
}

// DocumentResponse : inline document body encoded as a data: URL
type DocumentResponse struct {
	Filename string `json:"filename" example:"report.pdf"`
	MimeType string `json:"mimeType" example:"application/pdf"`
	Size     int    `json:"size" example:"4"`
	DataURL  string `json:"dataUrl" example:"data:application/pdf;base64,JVBERg=="`
}

// JobResponseFromModel : converts model.Job to JobResponse
func JobResponseFromModel(job *model.Job) JobResponse {
	return JobResponse{
		ID:            job.ID,
		UserID:        job.UserID,
		DocumentName:  job.DocumentName,
		Pages:         job.Pages,
		Copies:        job.Copies,
		Color:         job.Color,
		Duplex:        job.Duplex,
		Stapling:      job.Stapling,
		Priority:      job.Priority,
		Notes:         job.Notes,
		Status:        job.Status,
		Cost:          json.Number(job.Cost.StringFixed(2)),
		SubmittedAt:   job.SubmittedAt,
		ReleasedAt:    job.ReleasedAt,
		CompletedAt:   job.CompletedAt,
		DeletedAt:     job.DeletedAt,
		FirstViewedAt: job.FirstViewedAt,
		LastViewedAt:  job.LastViewedAt,
		ReleaseLink:   job.ReleaseLink,
		ExpiresAt:     job.ExpiresAt,
		ViewCount:     job.ViewCount,
		PrinterID:     job.PrinterID,
		ReleasedBy:    job.ReleasedBy,
	}
}

// DocumentResponseFromBody : the data: URL is a transport concern, the service only hands out bytes
func DocumentResponseFromBody(body *model.DocumentBody) *DocumentResponse {
	if body == nil {
		return nil
	}
	return &DocumentResponse{
		Filename: body.Filename,
		MimeType: body.MimeType,
		Size:     len(body.Content),
		DataURL:  "data:" + body.MimeType + ";base64," + base64.StdEncoding.EncodeToString(body.Content),
	}
}

// SubmitJobResponse : response to a job submission
type SubmitJobResponse struct {
	Success bool        `json:"success" example:"true"`
	Job     JobResponse `json:"job"`
}

// ListJobsResponse : list of jobs
type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// GetJobResponse : job together with its preview document
type GetJobResponse struct {
	Job JobResponse `json:"job"`
}

// ViewJobRequest : request body for spending the single view
type ViewJobRequest struct {
	Token  string `json:"token" example:"3f9a1c0e5b7d4e2fa8c6b1d0e9f7a5c3"`
	UserID string `json:"userId" example:"user-42"`
}

// ViewJobResponse : response to the single view
type ViewJobResponse struct {
	Success       bool              `json:"success" example:"true"`
	Document      *DocumentResponse `json:"document"`
	ViewCount     int               `json:"viewCount" example:"1"`
	FirstViewedAt *time.Time        `json:"firstViewedAt"`
	Message       string            `json:"message" example:"Document viewed. This was your only view."`
}

// PrintTokenRequest : request body for minting a print token
type PrintTokenRequest struct {
	Token string `json:"token" example:"3f9a1c0e5b7d4e2fa8c6b1d0e9f7a5c3"`
}

// PrintTokenResponse : minted print token
type PrintTokenResponse struct {
	Success    bool      `json:"success" example:"true"`
	PrintToken string    `json:"printToken" example:"9b2e…"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ReleaseJobRequest : request body for releasing a job
type ReleaseJobRequest struct {
	Token      string  `json:"token" example:"3f9a1c0e5b7d4e2fa8c6b1d0e9f7a5c3"`
	PrinterID  *string `json:"printerId,omitempty" example:"printer-3f"`
	ReleasedBy *string `json:"releasedBy,omitempty" example:"front-desk"`
}

// StatusResponse : confirmation of a status transition
type StatusResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message,omitempty" example:"Job released for printing"`
	Status  model.JobStatus `json:"status" example:"released"`
}

// ExpiredJobsResponse : expired entries the cleanup loop has not swept yet
type ExpiredJobsResponse struct {
	Expired []model.ExpiredEntry `json:"expired"`
}

// JobViewsResponse : view audit log of a job
type JobViewsResponse struct {
	Views []model.JobView `json:"views"`
}

// PrinterLoginRequest : printer agent login
type PrinterLoginRequest struct {
	PrinterID string `json:"printerId" example:"printer-3f"`
	Secret    string `json:"secret" example:"s3cr3t"`
}

// PrinterLoginResponse : printer access token
type PrinterLoginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse : error envelope, the flags are only present on the matching 403
type ErrorResponse struct {
	Error         string `json:"error" example:"Forbidden"`
	Message       string `json:"message" example:"document has already been viewed"`
	Code          int    `json:"code" example:"403"`
	AlreadyViewed bool   `json:"alreadyViewed,omitempty" example:"true"`
	ViewCount     int    `json:"viewCount,omitempty" example:"1"`
	RequiresView  bool   `json:"requiresView,omitempty" example:"false"`
}
