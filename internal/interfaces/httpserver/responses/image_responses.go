package responses

import (
	"imagevault/image-api/internal/domain/image"
)

// CreateUploadResponse carries the upload handle and the derived record id.
type CreateUploadResponse struct {
	UploadURL  string `json:"upload_url"`
	ObjectName string `json:"object_name"`
}

// BuildCreateUploadResponse creates response from the upload ticket
func BuildCreateUploadResponse(ticket *image.UploadTicket) *CreateUploadResponse {
	return &CreateUploadResponse{
		UploadURL:  ticket.UploadURL,
		ObjectName: ticket.RecordID,
	}
}

// ListImagesResponse wraps the matched records.
type ListImagesResponse struct {
	Images []image.ImageRecord `json:"images"`
}

// DownloadURLResponse carries a download handle.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// SaveMetadataResponse confirms an explicit metadata save.
type SaveMetadataResponse struct {
	Status string             `json:"status"`
	Data   *image.ImageRecord `json:"data"`
}

// DeleteResponse reports a fully successful dual delete.
type DeleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// PartialDeleteResponse reports a dual delete where one side failed. The
// operation is safe to retry; both underlying deletes are idempotent.
type PartialDeleteResponse struct {
	Status string   `json:"status"`
	Errors []string `json:"errors"`
}
