package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
)

// ErrInvalidKey is returned for keys that could escape the storage root.
var ErrInvalidKey = errors.New("key contains invalid characters")

const imagesDirName = "images"

// LocalStorage is the filesystem substitute for the managed object store. It
// persists blobs under a fixed root and shapes access handles as
// <base URL>/local-store/<key> so the front end can use them exactly like
// presigned URLs. Handles have no real expiry.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
}

// NewLocalStorage creates the storage root if needed.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, errors.New("IMAGE_LOCAL_STORAGE_PATH must not be empty for the local backend")
	}

	if err := os.MkdirAll(filepath.Join(basePath, imagesDirName), 0755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	storage := &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(strings.TrimSpace(cfg.LocalBaseURL), "/"),
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", storage.baseURL).
		Msg("local storage initialized")

	return storage, nil
}

// validateKey rejects any key that could address a file outside the storage
// root. Keys with path separators or parent-directory sequences are refused
// before any filesystem access; this gate is a hard requirement of the local
// backend, not optional hardening.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty key: %w", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("path separator in key %q: %w", key, ErrInvalidKey)
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("path traversal in key %q: %w", key, ErrInvalidKey)
	}
	return nil
}

func (l *LocalStorage) blobPath(key string) string {
	return filepath.Join(l.basePath, imagesDirName, key)
}

// PresignPut returns the upload handle for the key. The key is only checked
// for validity, never for prior use.
func (l *LocalStorage) PresignPut(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/local-store/%s", l.baseURL, key), nil
}

// PresignGet returns the download handle for the key. Like the managed
// backend it succeeds whether or not the blob exists; absence surfaces as a
// 404 at GET time.
func (l *LocalStorage) PresignGet(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/local-store/%s", l.baseURL, key), nil
}

// Put stores blob bytes under the key, overwriting any previous content.
func (l *LocalStorage) Put(ctx context.Context, key string, body io.Reader) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	file, err := os.Create(l.blobPath(key))
	if err != nil {
		return 0, fmt.Errorf("create blob file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		return written, fmt.Errorf("write blob file: %w", err)
	}

	l.log.Debug().Str("key", key).Int64("bytes", written).Msg("blob stored")
	return written, nil
}

// Get opens the blob for reading and detects its content type. A missing key
// returns an error wrapping os.ErrNotExist.
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := validateKey(key); err != nil {
		return nil, "", err
	}

	path := l.blobPath(key)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("blob %q: %w", key, os.ErrNotExist)
		}
		return nil, "", fmt.Errorf("open blob file: %w", err)
	}

	contentType := "application/octet-stream"
	if mime, err := mimetype.DetectFile(path); err == nil {
		contentType = mime.String()
	}

	return file, contentType, nil
}

// Delete removes the blob. Deleting a nonexistent key is a success.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(l.blobPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

// Health checks that the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}
