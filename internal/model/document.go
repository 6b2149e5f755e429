package model

import "time"

const (
	IVSize      = 16
	AuthTagSize = 16
)

type Document struct {
	ID          string    `db:"id" json:"id"`
	JobID       string    `db:"job_id" json:"jobId"`
	Content     []byte    `db:"content" json:"-"`
	StorageKey  string    `db:"storage_key" json:"-"`
	MimeType    string    `db:"mime_type" json:"mimeType"`
	Filename    string    `db:"filename" json:"filename"`
	Size        int64     `db:"size" json:"size"`
	IsEncrypted bool      `db:"is_encrypted" json:"isEncrypted"`
	IV          []byte    `db:"iv" json:"-"`
	AuthTag     []byte    `db:"auth_tag" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// HasValidEnvelope : encrypted documents must carry a 16-byte iv and a 16-byte tag
func (d *Document) HasValidEnvelope() bool {
	if !d.IsEncrypted {
		return true
	}
	return len(d.IV) == IVSize && len(d.AuthTag) == AuthTagSize
}

// DocumentBody : plaintext handed to the transport layer
type DocumentBody struct {
	Content  []byte
	MimeType string
	Filename string
}

type DocumentAnalysis struct {
	ID           string    `db:"id" json:"id"`
	JobID        string    `db:"job_id" json:"jobId"`
	Sha256       string    `db:"sha256" json:"sha256"`
	DetectedMime string    `db:"detected_mime" json:"detectedMime"`
	SizeBytes    int64     `db:"size_bytes" json:"sizeBytes"`
	PageCount    int       `db:"page_count" json:"pageCount"`
	WordCount    int       `db:"word_count" json:"wordCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type JobView struct {
	ID        string    `db:"id" json:"id"`
	JobID     string    `db:"job_id" json:"jobId"`
	UserID    string    `db:"user_id" json:"userId"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	ViewedAt  time.Time `db:"viewed_at" json:"viewedAt"`
}
