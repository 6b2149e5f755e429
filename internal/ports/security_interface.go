package ports

import (
	"secure-print-release/internal/model"
	"time"
)

type Envelope interface {
	Seal(plaintext []byte) (ciphertext, iv, tag []byte, err error)
	Open(ciphertext, iv, tag []byte) ([]byte, error)
}

type DocumentAnalyzer interface {
	Analyze(content []byte, mimeType string) (*model.DocumentAnalysis, error)
}

// PrinterAuthenticator : exchanges printer credentials for an access token
type PrinterAuthenticator interface {
	Login(printerID, secret string) (string, time.Time, error)
}
