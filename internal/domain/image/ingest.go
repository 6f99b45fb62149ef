package image

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imagevault/image-api/internal/utils/platformerrors"
	"imagevault/image-api/utils/imageid"
)

// IngestService orchestrates the unified upload flow: derive a time-sortable
// record id, obtain an upload handle and, when an owner is known, persist the
// metadata record.
type IngestService struct {
	objects ObjectStore
	records MetadataStore
	log     zerolog.Logger
}

func NewIngestService(objects ObjectStore, records MetadataStore, log zerolog.Logger) *IngestService {
	return &IngestService{
		objects: objects,
		records: records,
		log:     log.With().Str("component", "ingest-service").Logger(),
	}
}

// CreateUploadRequest carries the caller-supplied upload attributes. Only
// Filename is required; without OwnerID no metadata record is written.
type CreateUploadRequest struct {
	Filename    string
	OwnerID     string
	ContentType string
	Tags        []string
	Tag         string
	FileSize    int64
	Description string
}

// UploadTicket is the result of a successful CreateUpload call.
type UploadTicket struct {
	UploadURL string
	RecordID  string
}

// CreateUpload issues an upload handle for a freshly derived record id and
// upserts the metadata record when an owner is supplied. If the upsert fails
// after the handle was issued, the whole operation is reported as failed even
// though the handle remains valid; the inconsistency is surfaced, not masked.
func (s *IngestService) CreateUpload(ctx context.Context, req CreateUploadRequest) (*UploadTicket, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing filename", nil)
	}

	now := time.Now().UTC()
	recordID := imageid.NewAt(now, req.Filename)

	uploadURL, err := s.objects.PresignPut(ctx, recordID)
	if err != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorage, "failed to generate upload URL", err,
			map[string]any{"record_id": recordID})
	}

	if req.OwnerID != "" {
		rec := buildRecord(req, recordID, now)
		if err := s.records.Upsert(ctx, rec); err != nil {
			s.log.Error().Err(err).
				Str("user_id", req.OwnerID).
				Str("record_id", recordID).
				Msg("metadata upsert failed after upload handle was issued")
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeStorage, "failed to save metadata", err,
				map[string]any{"record_id": recordID})
		}
	}

	return &UploadTicket{UploadURL: uploadURL, RecordID: recordID}, nil
}

func buildRecord(req CreateUploadRequest, recordID string, now time.Time) *ImageRecord {
	tags := slices.Clone(req.Tags)
	if tags == nil {
		tags = []string{}
	}
	if req.Tag != "" && !slices.Contains(tags, req.Tag) {
		tags = append(tags, req.Tag)
	}

	primary := DefaultTag
	switch {
	case len(tags) > 0:
		primary = tags[0]
	case req.Tag != "":
		primary = req.Tag
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	return &ImageRecord{
		OwnerID:          req.OwnerID,
		RecordID:         recordID,
		PrimaryTag:       primary,
		Tags:             tags,
		Description:      req.Description,
		ContentType:      contentType,
		FileSize:         ByteSize(req.FileSize),
		StorageKey:       recordID,
		UploadTime:       imageid.FormatUploadTime(now),
		OriginalFilename: req.Filename,
	}
}

// SaveRecordRequest carries an explicit metadata save, used when the record
// id was derived elsewhere.
type SaveRecordRequest struct {
	OwnerID     string
	RecordID    string
	Tag         string
	Tags        []string
	Description string
	ContentType string
	FileSize    int64
	StorageKey  string
}

// SaveRecord upserts a record outside the unified upload flow. The storage
// key falls back to the record id when not supplied.
func (s *IngestService) SaveRecord(ctx context.Context, req SaveRecordRequest) (*ImageRecord, error) {
	if strings.TrimSpace(req.OwnerID) == "" || strings.TrimSpace(req.RecordID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "missing user_id or image_id", nil)
	}

	tags := slices.Clone(req.Tags)
	if tags == nil {
		tags = []string{}
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	storageKey := req.StorageKey
	if storageKey == "" {
		storageKey = req.RecordID
	}

	rec := &ImageRecord{
		OwnerID:     req.OwnerID,
		RecordID:    req.RecordID,
		PrimaryTag:  req.Tag,
		Tags:        tags,
		Description: req.Description,
		ContentType: contentType,
		FileSize:    ByteSize(req.FileSize),
		StorageKey:  storageKey,
		UploadTime:  imageid.FormatUploadTime(time.Now()),
	}

	if err := s.records.Upsert(ctx, rec); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeStorage, "failed to save metadata", err)
	}
	return rec, nil
}
