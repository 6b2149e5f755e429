package ports

import (
	"context"
)

// BlobStorage : S3 backend for ciphertext when a bucket is configured
type BlobStorage interface {
	PutObject(ctx context.Context, key string, body []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
}
