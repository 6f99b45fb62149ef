package image_test

import (
	"context"
	"errors"

	"imagevault/image-api/internal/domain/image"
)

var errBackend = errors.New("backend unavailable")

// fakeObjectStore records calls and can be told to fail per operation.
type fakeObjectStore struct {
	presignPutErr bool
	presignGetErr bool
	deleteErr     bool

	presignedPuts []string
	presignedGets []string
	deleted       []string
}

func (f *fakeObjectStore) PresignPut(ctx context.Context, key string) (string, error) {
	if f.presignPutErr {
		return "", errBackend
	}
	f.presignedPuts = append(f.presignedPuts, key)
	return "https://blobs.test/upload/" + key, nil
}

func (f *fakeObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	if f.presignGetErr {
		return "", errBackend
	}
	f.presignedGets = append(f.presignedGets, key)
	return "https://blobs.test/download/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr {
		return errBackend
	}
	f.deleted = append(f.deleted, key)
	return nil
}

// fakeMetadataStore is an in-memory MetadataStore with per-operation failure
// switches.
type fakeMetadataStore struct {
	upsertErr bool
	deleteErr bool
	queryErr  bool

	records []image.ImageRecord
	deleted []string
}

func (f *fakeMetadataStore) Upsert(ctx context.Context, rec *image.ImageRecord) error {
	if f.upsertErr {
		return errBackend
	}
	for i := range f.records {
		if f.records[i].OwnerID == rec.OwnerID && f.records[i].RecordID == rec.RecordID {
			f.records[i] = *rec
			return nil
		}
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeMetadataStore) Get(ctx context.Context, ownerID, recordID string) (*image.ImageRecord, error) {
	for i := range f.records {
		if f.records[i].OwnerID == ownerID && f.records[i].RecordID == recordID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeMetadataStore) Delete(ctx context.Context, ownerID, recordID string) error {
	if f.deleteErr {
		return errBackend
	}
	f.deleted = append(f.deleted, ownerID+"/"+recordID)
	kept := f.records[:0]
	for _, rec := range f.records {
		if rec.OwnerID == ownerID && rec.RecordID == recordID {
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	return nil
}

func (f *fakeMetadataStore) Query(ctx context.Context, q image.RecordQuery) ([]image.ImageRecord, error) {
	if f.queryErr {
		return nil, errBackend
	}
	matched := []image.ImageRecord{}
	for i := range f.records {
		if q.Matches(&f.records[i]) {
			matched = append(matched, f.records[i])
		}
	}
	return matched, nil
}
