package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	"imagevault/image-api/internal/domain/image"
)

const metadataFileName = "metadata.json"

// LocalStore is the filesystem substitute for the managed table: a single
// JSON array file holding every record, rewritten wholesale on each mutation.
// Queries are full linear scans with the same predicates as the indexed
// backend, so behavior is observably identical and only cost differs.
//
// Concurrent writers must serialize the load-modify-save cycle, otherwise
// updates are lost; the mutex below is that single-writer lock.
type LocalStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

func NewLocalStore(cfg *config.Config, log zerolog.Logger) (*LocalStore, error) {
	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		return nil, errors.New("IMAGE_LOCAL_STORAGE_PATH must not be empty for the local backend")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create local storage directory: %w", err)
	}

	return &LocalStore{
		path: filepath.Join(basePath, metadataFileName),
		log:  log.With().Str("component", "local-metadata-store").Logger(),
	}, nil
}

// load reads the whole record file. A missing file is an empty store.
func (l *LocalStore) load() ([]image.ImageRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []image.ImageRecord{}, nil
		}
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	var records []image.ImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode metadata file: %w", err)
	}
	return records, nil
}

// save rewrites the record file through a temp file and rename so readers
// never observe a partial write.
func (l *LocalStore) save(records []image.ImageRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace metadata file: %w", err)
	}
	return nil
}

// Upsert inserts or fully replaces the record keyed by (owner, record id).
func (l *LocalStore) Upsert(ctx context.Context, rec *image.ImageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, existing := range records {
		if existing.OwnerID == rec.OwnerID && existing.RecordID == rec.RecordID {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, *rec)

	return l.save(kept)
}

// Get returns the record at (ownerID, recordID), or (nil, nil) when absent.
func (l *LocalStore) Get(ctx context.Context, ownerID, recordID string) (*image.ImageRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].OwnerID == ownerID && records[i].RecordID == recordID {
			return &records[i], nil
		}
	}
	return nil, nil
}

// Delete removes the record. Deleting an absent key is a success.
func (l *LocalStore) Delete(ctx context.Context, ownerID, recordID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, existing := range records {
		if existing.OwnerID == ownerID && existing.RecordID == recordID {
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) == len(records) {
		return nil
	}
	return l.save(kept)
}

// Query scans all records through the shared predicate, sorted in ascending
// record-id order to match the real backend's sort-key order.
func (l *LocalStore) Query(ctx context.Context, q image.RecordQuery) ([]image.ImageRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return nil, err
	}

	matched := []image.ImageRecord{}
	for _, rec := range records {
		if q.Matches(&rec) {
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RecordID < matched[j].RecordID
	})
	return matched, nil
}

// Health checks that the record file's directory is writable.
func (l *LocalStore) Health(ctx context.Context) error {
	testFile := filepath.Join(filepath.Dir(l.path), ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("metadata directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}
