package image_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/utils/platformerrors"
)

func newQueryService(objects *fakeObjectStore, records *fakeMetadataStore) *image.QueryService {
	return image.NewQueryService(objects, records, zerolog.Nop())
}

func TestQueryService_List(t *testing.T) {
	records := &fakeMetadataStore{records: []image.ImageRecord{
		{OwnerID: "user-1", RecordID: "rec-1", PrimaryTag: "a", Tags: []string{"a"}},
		{OwnerID: "user-2", RecordID: "rec-2", PrimaryTag: "a", Tags: []string{"a"}},
	}}
	svc := newQueryService(&fakeObjectStore{}, records)

	got, err := svc.List(context.Background(), image.RecordQuery{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].RecordID != "rec-1" {
		t.Errorf("List() = %v, want only user-1's record", got)
	}
}

func TestQueryService_List_StoreFailure(t *testing.T) {
	svc := newQueryService(&fakeObjectStore{}, &fakeMetadataStore{queryErr: true})

	_, err := svc.List(context.Background(), image.RecordQuery{OwnerID: "user-1"})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeStorage) {
		t.Fatalf("List() error = %v, want storage error", err)
	}
}

func TestQueryService_Usage(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []int64
		wantBytes int64
		wantKB    float64
		wantMB    float64
		wantCount int
	}{
		{
			name:      "sums and rounds",
			sizes:     []int64{1000, 500},
			wantBytes: 1500,
			wantKB:    1.46,
			wantMB:    0,
			wantCount: 2,
		},
		{
			name:      "no records",
			sizes:     nil,
			wantBytes: 0,
			wantKB:    0,
			wantMB:    0,
			wantCount: 0,
		},
		{
			name:      "megabyte scale",
			sizes:     []int64{5 * 1024 * 1024},
			wantBytes: 5 * 1024 * 1024,
			wantKB:    5120,
			wantMB:    5,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &fakeMetadataStore{}
			for i, size := range tt.sizes {
				records.records = append(records.records, image.ImageRecord{
					OwnerID:  "user-1",
					RecordID: string(rune('a' + i)),
					FileSize: image.ByteSize(size),
				})
			}
			svc := newQueryService(&fakeObjectStore{}, records)

			report, err := svc.Usage(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Usage() error = %v", err)
			}
			if report.UserID != "user-1" {
				t.Errorf("UserID = %q, want %q", report.UserID, "user-1")
			}
			if report.TotalBytes != tt.wantBytes {
				t.Errorf("TotalBytes = %d, want %d", report.TotalBytes, tt.wantBytes)
			}
			if report.TotalKB != tt.wantKB {
				t.Errorf("TotalKB = %v, want %v", report.TotalKB, tt.wantKB)
			}
			if report.TotalMB != tt.wantMB {
				t.Errorf("TotalMB = %v, want %v", report.TotalMB, tt.wantMB)
			}
			if report.FileCount != tt.wantCount {
				t.Errorf("FileCount = %d, want %d", report.FileCount, tt.wantCount)
			}
		})
	}
}

func TestQueryService_Usage_MissingOwner(t *testing.T) {
	svc := newQueryService(&fakeObjectStore{}, &fakeMetadataStore{})

	_, err := svc.Usage(context.Background(), " ")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("Usage() error = %v, want validation error", err)
	}
}

func TestQueryService_DownloadURL(t *testing.T) {
	objects := &fakeObjectStore{}
	svc := newQueryService(objects, &fakeMetadataStore{})

	url, err := svc.DownloadURL(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("DownloadURL() error = %v", err)
	}
	if url != "https://blobs.test/download/rec-1" {
		t.Errorf("DownloadURL() = %q", url)
	}
}

func TestQueryService_DownloadURL_Errors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		svc := newQueryService(&fakeObjectStore{}, &fakeMetadataStore{})
		_, err := svc.DownloadURL(context.Background(), "")
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("DownloadURL() error = %v, want validation error", err)
		}
	})

	t.Run("presign failure", func(t *testing.T) {
		svc := newQueryService(&fakeObjectStore{presignGetErr: true}, &fakeMetadataStore{})
		_, err := svc.DownloadURL(context.Background(), "rec-1")
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeStorage) {
			t.Errorf("DownloadURL() error = %v, want storage error", err)
		}
	})
}
