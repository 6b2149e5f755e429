package util

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UploadStore : temp directory for raw multipart uploads, one file per job
type UploadStore struct {
	fs  afero.Fs
	dir string
}

func NewUploadStore(fs afero.Fs, dir string) (*UploadStore, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &UploadStore{fs: fs, dir: dir}, nil
}

// Save : writes the upload under a generated name and returns its path and size
func (s *UploadStore) Save(src io.Reader, originalName string) (string, int64, error) {
	path := filepath.Join(s.dir, uuid.New().String()+sanitizeExt(originalName))

	file, err := s.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}

	return path, size, nil
}

func (s *UploadStore) Read(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

func (s *UploadStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	exists, err := afero.Exists(s.fs, path)
	return err == nil && exists
}

// Remove : missing files are not an error
func (s *UploadStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := s.fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
