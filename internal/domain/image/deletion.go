package image

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/utils/platformerrors"
)

// DeleteService removes a blob and its metadata record. The two deletes are
// independent; both are always attempted.
type DeleteService struct {
	objects ObjectStore
	records MetadataStore
	log     zerolog.Logger
}

func NewDeleteService(objects ObjectStore, records MetadataStore, log zerolog.Logger) *DeleteService {
	return &DeleteService{
		objects: objects,
		records: records,
		log:     log.With().Str("component", "delete-service").Logger(),
	}
}

// DeleteResult reports the outcome of a dual delete. An empty Failures slice
// means full success; otherwise it enumerates which side failed.
type DeleteResult struct {
	RecordID string   `json:"id"`
	Failures []string `json:"errors,omitempty"`
}

// FullSuccess reports whether both deletes succeeded.
func (r *DeleteResult) FullSuccess() bool {
	return len(r.Failures) == 0
}

// Delete attempts both the blob delete and the record delete regardless of
// either's outcome. Partial failures are reported, never retried here; the
// caller may retry safely because both underlying deletes are idempotent.
func (s *DeleteService) Delete(ctx context.Context, ownerID, recordID string) (*DeleteResult, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(recordID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing id or user_id", nil)
	}

	result := &DeleteResult{RecordID: recordID}

	if err := s.objects.Delete(ctx, recordID); err != nil {
		s.log.Error().Err(err).Str("record_id", recordID).Msg("object store delete failed")
		result.Failures = append(result.Failures, "object store delete failed")
	}

	if err := s.records.Delete(ctx, ownerID, recordID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", ownerID).
			Str("record_id", recordID).
			Msg("metadata delete failed")
		result.Failures = append(result.Failures, "metadata delete failed")
	}

	return result, nil
}
