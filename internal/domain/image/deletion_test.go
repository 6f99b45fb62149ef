package image_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/utils/platformerrors"
)

func newDeleteService(objects *fakeObjectStore, records *fakeMetadataStore) *image.DeleteService {
	return image.NewDeleteService(objects, records, zerolog.Nop())
}

func TestDeleteService_Delete_Validation(t *testing.T) {
	svc := newDeleteService(&fakeObjectStore{}, &fakeMetadataStore{})

	tests := []struct {
		name     string
		ownerID  string
		recordID string
	}{
		{name: "missing owner", ownerID: "", recordID: "rec-1"},
		{name: "missing record id", ownerID: "user-1", recordID: ""},
		{name: "whitespace owner", ownerID: "  ", recordID: "rec-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Delete(context.Background(), tt.ownerID, tt.recordID)
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Errorf("Delete() error = %v, want validation error", err)
			}
		})
	}
}

func TestDeleteService_Delete_FullSuccess(t *testing.T) {
	objects := &fakeObjectStore{}
	records := &fakeMetadataStore{records: []image.ImageRecord{
		{OwnerID: "user-1", RecordID: "rec-1"},
	}}
	svc := newDeleteService(objects, records)

	result, err := svc.Delete(context.Background(), "user-1", "rec-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !result.FullSuccess() {
		t.Fatalf("Delete() failures = %v, want none", result.Failures)
	}
	if result.RecordID != "rec-1" {
		t.Errorf("RecordID = %q, want %q", result.RecordID, "rec-1")
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != "rec-1" {
		t.Errorf("blob deletes = %v, want [rec-1]", objects.deleted)
	}
	if len(records.records) != 0 {
		t.Errorf("metadata records = %d, want 0", len(records.records))
	}
}

func TestDeleteService_Delete_PartialFailures(t *testing.T) {
	tests := []struct {
		name         string
		objects      *fakeObjectStore
		records      *fakeMetadataStore
		wantFailures []string
	}{
		{
			name:         "blob delete fails",
			objects:      &fakeObjectStore{deleteErr: true},
			records:      &fakeMetadataStore{},
			wantFailures: []string{"object store delete failed"},
		},
		{
			name:         "record delete fails",
			objects:      &fakeObjectStore{},
			records:      &fakeMetadataStore{deleteErr: true},
			wantFailures: []string{"metadata delete failed"},
		},
		{
			name:         "both fail",
			objects:      &fakeObjectStore{deleteErr: true},
			records:      &fakeMetadataStore{deleteErr: true},
			wantFailures: []string{"object store delete failed", "metadata delete failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newDeleteService(tt.objects, tt.records)

			result, err := svc.Delete(context.Background(), "user-1", "rec-1")
			if err != nil {
				t.Fatalf("Delete() error = %v, partial failures must not error", err)
			}
			if result.FullSuccess() {
				t.Fatal("FullSuccess() = true, want false")
			}
			if len(result.Failures) != len(tt.wantFailures) {
				t.Fatalf("Failures = %v, want %v", result.Failures, tt.wantFailures)
			}
			for i := range tt.wantFailures {
				if result.Failures[i] != tt.wantFailures[i] {
					t.Errorf("Failures = %v, want %v", result.Failures, tt.wantFailures)
					break
				}
			}
		})
	}
}

func TestDeleteService_Delete_AttemptsBothSides(t *testing.T) {
	// A blob failure must not stop the record delete.
	objects := &fakeObjectStore{deleteErr: true}
	records := &fakeMetadataStore{records: []image.ImageRecord{
		{OwnerID: "user-1", RecordID: "rec-1"},
	}}
	svc := newDeleteService(objects, records)

	result, err := svc.Delete(context.Background(), "user-1", "rec-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(records.records) != 0 {
		t.Errorf("metadata records = %d, want 0 despite blob failure", len(records.records))
	}
	if len(result.Failures) != 1 {
		t.Errorf("Failures = %v, want only the blob side", result.Failures)
	}
}
