package requests

import (
	"imagevault/image-api/internal/domain/image"
)

// CreateUploadRequest represents the unified upload request. Only filename is
// required; validation happens in the domain layer so the error taxonomy
// stays uniform.
type CreateUploadRequest struct {
	Filename    string   `json:"filename"`
	UserID      string   `json:"user_id"`
	ContentType string   `json:"content_type"`
	Tags        []string `json:"tags"`
	Tag         string   `json:"tag"`
	FileSize    int64    `json:"file_size"`
	Description string   `json:"description"`
}

// ToDomain converts request to domain model
func (r *CreateUploadRequest) ToDomain() image.CreateUploadRequest {
	return image.CreateUploadRequest{
		Filename:    r.Filename,
		OwnerID:     r.UserID,
		ContentType: r.ContentType,
		Tags:        r.Tags,
		Tag:         r.Tag,
		FileSize:    r.FileSize,
		Description: r.Description,
	}
}

// SaveMetadataRequest represents an explicit metadata save.
type SaveMetadataRequest struct {
	UserID      string   `json:"user_id"`
	ImageID     string   `json:"image_id"`
	Tag         string   `json:"tag"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	ContentType string   `json:"content_type"`
	FileSize    int64    `json:"file_size"`
	S3Key       string   `json:"s3_key"`
}

// ToDomain converts request to domain model
func (r *SaveMetadataRequest) ToDomain() image.SaveRecordRequest {
	return image.SaveRecordRequest{
		OwnerID:     r.UserID,
		RecordID:    r.ImageID,
		Tag:         r.Tag,
		Tags:        r.Tags,
		Description: r.Description,
		ContentType: r.ContentType,
		FileSize:    r.FileSize,
		StorageKey:  r.S3Key,
	}
}
