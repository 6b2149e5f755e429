package model

import "time"

// PrintToken : short-lived single-use token that authorizes one decrypted stream
type PrintToken struct {
	JobID     string    `json:"jobId"`
	Token     string    `json:"printToken"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"-"`
}

// Metadata : in-memory state of a release link, lost on restart
type Metadata struct {
	ExpiresAt     time.Time
	CreatedAt     time.Time
	Token         string
	ViewCount     int
	FirstViewedAt *time.Time
	FilePath      string
	MimeType      string
	OriginalName  string
	Status        JobStatus
}

// ExpiredEntry : metadata entry past its deadline that the cleanup loop has not swept yet
type ExpiredEntry struct {
	ID            string    `json:"id"`
	ExpiredAt     time.Time `json:"expiredAt"`
	OriginalToken string    `json:"originalToken"`
}
