package image

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/utils/platformerrors"
)

// QueryService answers the read-side operations: listing, per-owner usage
// aggregation and download-handle issuance.
type QueryService struct {
	objects ObjectStore
	records MetadataStore
	log     zerolog.Logger
}

func NewQueryService(objects ObjectStore, records MetadataStore, log zerolog.Logger) *QueryService {
	return &QueryService{
		objects: objects,
		records: records,
		log:     log.With().Str("component", "query-service").Logger(),
	}
}

// List is a direct pass-through to the metadata store's query; no
// post-filtering happens here.
func (s *QueryService) List(ctx context.Context, q RecordQuery) ([]ImageRecord, error) {
	recs, err := s.records.Query(ctx, q)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorage, "failed to query images", err)
	}
	return recs, nil
}

// UsageReport summarizes an owner's stored bytes.
type UsageReport struct {
	UserID     string  `json:"user_id"`
	TotalBytes int64   `json:"total_bytes"`
	TotalKB    float64 `json:"total_kb"`
	TotalMB    float64 `json:"total_mb"`
	FileCount  int     `json:"file_count"`
}

// Usage sums file sizes across all of the owner's records. This is an O(n)
// scan over the owner's partition; at this scale no maintained aggregate is
// kept.
func (s *QueryService) Usage(ctx context.Context, ownerID string) (*UsageReport, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing user_id", nil)
	}

	recs, err := s.records.Query(ctx, RecordQuery{OwnerID: ownerID})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorage, "failed to query images", err)
	}

	var totalBytes int64
	for _, rec := range recs {
		totalBytes += int64(rec.FileSize)
	}

	return &UsageReport{
		UserID:     ownerID,
		TotalBytes: totalBytes,
		TotalKB:    round2(float64(totalBytes) / 1024),
		TotalMB:    round2(float64(totalBytes) / (1024 * 1024)),
		FileCount:  len(recs),
	}, nil
}

// DownloadURL issues a download handle for the record id. The handle is
// produced whether or not the blob exists; absence only surfaces at GET time.
func (s *QueryService) DownloadURL(ctx context.Context, recordID string) (string, error) {
	if strings.TrimSpace(recordID) == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing image id", nil)
	}

	url, err := s.objects.PresignGet(ctx, recordID)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorage, "failed to generate download URL", err)
	}
	return url, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
