package model

import (
	"github.com/shopspring/decimal"
	"time"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusReleased  JobStatus = "released"
	JobStatusCompleted JobStatus = "completed"
	JobStatusDeleted   JobStatus = "deleted"
)

type PrintOptions struct {
	Pages    int    `db:"pages" json:"pages"`
	Copies   int    `db:"copies" json:"copies"`
	Color    bool   `db:"color" json:"color"`
	Duplex   bool   `db:"duplex" json:"duplex"`
	Stapling bool   `db:"stapling" json:"stapling"`
	Priority string `db:"priority" json:"priority"`
	Notes    string `db:"notes" json:"notes"`
}

type Job struct {
	ID           string `db:"id" json:"id"`
	UserID       string `db:"user_id" json:"userId"`
	DocumentName string `db:"document_name" json:"documentName"`
	PrintOptions
	Status        JobStatus       `db:"status" json:"status"`
	Cost          decimal.Decimal `db:"cost" json:"cost"`
	SubmittedAt   time.Time       `db:"submitted_at" json:"submittedAt"`
	ReleasedAt    *time.Time      `db:"released_at" json:"releasedAt,omitempty"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"deletedAt,omitempty"`
	FirstViewedAt *time.Time      `db:"first_viewed_at" json:"firstViewedAt,omitempty"`
	LastViewedAt  *time.Time      `db:"last_viewed_at" json:"lastViewedAt,omitempty"`
	SecureToken   string          `db:"secure_token" json:"-"`
	ReleaseLink   string          `db:"release_link" json:"releaseLink"`
	ExpiresAt     time.Time       `db:"expires_at" json:"expiresAt"`
	ExpiryHours   *int            `db:"expiry_hours" json:"expiryHours,omitempty"`
	ViewCount     int             `db:"view_count" json:"viewCount"`
	PrinterID     *string         `db:"printer_id" json:"printerId,omitempty"`
	ReleasedBy    *string         `db:"released_by" json:"releasedBy,omitempty"`
}

// DurableDeadline : the deadline that applies when no ephemeral entry exists for the job
func (j *Job) DurableDeadline(defaultHours int) time.Time {
	hours := defaultHours
	if j.ExpiryHours != nil {
		hours = *j.ExpiryHours
	}

	deadline := j.SubmittedAt.Add(time.Duration(hours) * time.Hour)
	if !j.ExpiresAt.IsZero() && j.ExpiresAt.Before(deadline) {
		return j.ExpiresAt
	}
	return deadline
}

// IsTerminal : deleted jobs accept no lifecycle operation
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusDeleted
}

// CalculateCost : baseCost · pages · copies · (color ? 2 : 1) · (duplex ? 0.8 : 1), two decimals
func CalculateCost(baseCost decimal.Decimal, options PrintOptions) decimal.Decimal {
	cost := baseCost.
		Mul(decimal.NewFromInt(int64(options.Pages))).
		Mul(decimal.NewFromInt(int64(options.Copies)))
	if options.Color {
		cost = cost.Mul(decimal.NewFromInt(2))
	}
	if options.Duplex {
		cost = cost.Mul(decimal.RequireFromString("0.8"))
	}
	return cost.Round(2)
}

// UploadedFile : raw upload already written to the temp dir by the transport layer
type UploadedFile struct {
	Path     string
	Filename string
	MimeType string
	Size     int64
}

type SubmitInput struct {
	UserID            string
	DocumentName      string
	Options           PrintOptions
	ExpirationMinutes int
	ExpiryHours       *int
	File              *UploadedFile
	PublicBaseURL     string
}

// Viewer : who spent the single view, recorded in job_views
type Viewer struct {
	UserID    string
	UserAgent string
	IPAddress string
}
