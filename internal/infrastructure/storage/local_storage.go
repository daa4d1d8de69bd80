package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalReceiptStore is a filesystem-backed stub used in development and
// tests when no S3-compatible backend is available. Presigned URLs are
// placeholders; uploads go through Upload directly.
type LocalReceiptStore struct {
	baseDir       string
	presignExpiry time.Duration
}

// NewLocalReceiptStore creates a receipt store rooted at baseDir
func NewLocalReceiptStore(baseDir string) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalReceiptStore{
		baseDir:       baseDir,
		presignExpiry: 15 * time.Minute,
	}, nil
}

// GenerateUploadURL returns a placeholder URL; local clients upload through Upload
func (s *LocalReceiptStore) GenerateUploadURL(_ context.Context, storageKey, _ string) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, fmt.Errorf("storage key is required")
	}
	return "local://" + storageKey, time.Now().Add(s.presignExpiry), nil
}

// GenerateDownloadURL returns a placeholder URL pointing at the stored file
func (s *LocalReceiptStore) GenerateDownloadURL(_ context.Context, storageKey string) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, fmt.Errorf("storage key is required")
	}
	return "local://" + storageKey, time.Now().Add(s.presignExpiry), nil
}

// ObjectExists checks whether the file is present on disk
func (s *LocalReceiptStore) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	_, err := os.Stat(s.path(storageKey))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteObject removes the file. Deleting a missing file is a no-op.
func (s *LocalReceiptStore) DeleteObject(_ context.Context, storageKey string) error {
	err := os.Remove(s.path(storageKey))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Upload writes the file to disk
func (s *LocalReceiptStore) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	target := s.path(storageKey)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *LocalReceiptStore) path(storageKey string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(storageKey))
}
