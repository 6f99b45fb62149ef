package image

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// DefaultTag is assigned as the primary tag when the caller supplies none.
	DefaultTag = "uncategorized"
	// DefaultContentType is used when the caller omits a content type.
	DefaultContentType = "application/octet-stream"
)

// ImageRecord represents one stored blob's descriptive attributes. The record
// and its blob have independent lifecycles; callers must tolerate either side
// being absent.
type ImageRecord struct {
	OwnerID  string `json:"user_id" dynamodbav:"user_id"`
	RecordID string `json:"image_id" dynamodbav:"image_id"`
	// PrimaryTag keys the secondary (tag-based) access path. It is not kept
	// in sync with Tags after creation; callers may rely on the fields being
	// independent.
	PrimaryTag       string   `json:"tag" dynamodbav:"tag"`
	Tags             []string `json:"tags" dynamodbav:"tags"`
	Description      string   `json:"description" dynamodbav:"description"`
	ContentType      string   `json:"content_type" dynamodbav:"content_type"`
	FileSize         ByteSize `json:"file_size" dynamodbav:"file_size"`
	StorageKey       string   `json:"s3_key" dynamodbav:"s3_key"`
	UploadTime       string   `json:"upload_time" dynamodbav:"upload_time"`
	OriginalFilename string   `json:"original_filename" dynamodbav:"original_filename"`
}

// ByteSize is a byte count that tolerates legacy records where the size was
// stored as a numeric-looking string or is missing entirely. Any non-numeric
// value decodes as 0 rather than failing the whole record.
type ByteSize int64

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*b = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			*b = 0
			return nil
		}
		raw = unquoted
	}
	*b = parseByteSize(raw)
	return nil
}

// UnmarshalDynamoDBAttributeValue applies the same leniency to items read
// from the table, where legacy writers stored file_size as a string.
func (b *ByteSize) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		*b = parseByteSize(v.Value)
	case *types.AttributeValueMemberS:
		*b = parseByteSize(v.Value)
	default:
		*b = 0
	}
	return nil
}

// MarshalDynamoDBAttributeValue always writes the size as a number.
func (b ByteSize) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(b), 10)}, nil
}

func parseByteSize(raw string) ByteSize {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ByteSize(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return ByteSize(f)
	}
	return 0
}

// RecordQuery selects records from the metadata store. Resolution precedence:
// OwnerID first (primary access path, optional id range and tags filter),
// then Tag alone (secondary access path on the primary tag), else nothing.
type RecordQuery struct {
	OwnerID string
	Tag     string
	StartID string
	EndID   string
}

// HasRange reports whether both range bounds are present. A single bound is
// ignored, matching the real backend's key-condition behavior.
func (q RecordQuery) HasRange() bool {
	return q.StartID != "" && q.EndID != ""
}

// Matches is the scan predicate used by the local substitute backend. It must
// stay observably identical to the indexed queries of the real backend.
func (q RecordQuery) Matches(rec *ImageRecord) bool {
	switch {
	case q.OwnerID != "":
		if rec.OwnerID != q.OwnerID {
			return false
		}
		if q.HasRange() && (rec.RecordID < q.StartID || rec.RecordID > q.EndID) {
			return false
		}
		if q.Tag != "" && !slices.Contains(rec.Tags, q.Tag) {
			return false
		}
		return true
	case q.Tag != "":
		if rec.PrimaryTag != q.Tag {
			return false
		}
		if q.HasRange() && (rec.RecordID < q.StartID || rec.RecordID > q.EndID) {
			return false
		}
		return true
	default:
		// Never dump the whole store.
		return false
	}
}

// ObjectStore issues time-limited access handles and deletes blobs by key.
// Both backends (S3 and the local filesystem substitute) satisfy this
// contract with identical observable behavior.
type ObjectStore interface {
	// PresignPut returns an upload handle for the key. The key is never
	// checked for prior use.
	PresignPut(ctx context.Context, key string) (string, error)
	// PresignGet returns a download handle for the key, whether or not the
	// blob exists. Absence only surfaces at actual GET time.
	PresignGet(ctx context.Context, key string) (string, error)
	// Delete removes the blob. Deleting a nonexistent key is a success.
	Delete(ctx context.Context, key string) error
}

// MetadataStore persists image records keyed by (owner, record id).
type MetadataStore interface {
	// Upsert inserts or fully replaces the record at its key.
	Upsert(ctx context.Context, rec *ImageRecord) error
	// Get returns the record, or (nil, nil) when absent.
	Get(ctx context.Context, ownerID, recordID string) (*ImageRecord, error)
	// Delete removes the record. Deleting an absent key is a success.
	Delete(ctx context.Context, ownerID, recordID string) error
	// Query returns records matching q in ascending record-id order.
	Query(ctx context.Context, q RecordQuery) ([]ImageRecord, error)
}
