package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	domain "imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/interfaces/httpserver/requests"
	"imagevault/image-api/internal/interfaces/httpserver/responses"
)

// ImageHandler exposes the upload, query and delete endpoints.
type ImageHandler struct {
	cfg      *config.Config
	ingest   *domain.IngestService
	query    *domain.QueryService
	deletion *domain.DeleteService
	log      zerolog.Logger
}

func NewImageHandler(cfg *config.Config, ingest *domain.IngestService, query *domain.QueryService, deletion *domain.DeleteService, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		cfg:      cfg,
		ingest:   ingest,
		query:    query,
		deletion: deletion,
		log:      log.With().Str("component", "image-handler").Logger(),
	}
}

// CreateUpload handles POST /images/upload: issues an upload handle and, when
// a user id is supplied, persists the metadata record in the same call.
func (h *ImageHandler) CreateUpload(c *gin.Context) {
	var req requests.CreateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Status: "error", Message: "invalid request body"})
		return
	}

	ticket, err := h.ingest.CreateUpload(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Msg("create upload failed")
		responses.HandleError(c, err, "failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, responses.BuildCreateUploadResponse(ticket))
}

// SaveMetadata handles POST /save-metadata: explicit record save outside the
// unified upload flow.
func (h *ImageHandler) SaveMetadata(c *gin.Context) {
	var req requests.SaveMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Status: "error", Message: "invalid request body"})
		return
	}

	rec, err := h.ingest.SaveRecord(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Msg("save metadata failed")
		responses.HandleError(c, err, "failed to save metadata")
		return
	}

	c.JSON(http.StatusCreated, responses.SaveMetadataResponse{Status: "success", Data: rec})
}

// List handles GET /images with optional user_id, tag and date-range filters.
func (h *ImageHandler) List(c *gin.Context) {
	q := domain.RecordQuery{
		OwnerID: c.Query("user_id"),
		Tag:     c.Query("tag"),
		StartID: c.Query("start_date"),
		EndID:   c.Query("end_date"),
	}

	records, err := h.query.List(c.Request.Context(), q)
	if err != nil {
		h.log.Error().Err(err).Msg("list images failed")
		responses.HandleError(c, err, "failed to query images")
		return
	}

	c.JSON(http.StatusOK, responses.ListImagesResponse{Images: records})
}

// Download handles GET /images/:id/download. A handle is issued whether or
// not the blob exists.
func (h *ImageHandler) Download(c *gin.Context) {
	url, err := h.query.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("download URL failed")
		responses.HandleError(c, err, "failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, responses.DownloadURLResponse{DownloadURL: url})
}

// Delete handles DELETE /images/:id?user_id=. Both the blob and the record
// are always attempted; one-sided failures come back as 207.
func (h *ImageHandler) Delete(c *gin.Context) {
	result, err := h.deletion.Delete(c.Request.Context(), c.Query("user_id"), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("delete failed")
		responses.HandleError(c, err, "failed to delete image")
		return
	}

	if result.FullSuccess() {
		c.JSON(http.StatusOK, responses.DeleteResponse{Status: "deleted", ID: result.RecordID})
		return
	}

	c.JSON(http.StatusMultiStatus, responses.PartialDeleteResponse{
		Status: "partial_success",
		Errors: result.Failures,
	})
}

// Usage handles GET /usage?user_id=.
func (h *ImageHandler) Usage(c *gin.Context) {
	report, err := h.query.Usage(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.log.Error().Err(err).Msg("usage failed")
		responses.HandleError(c, err, "failed to compute usage")
		return
	}

	c.JSON(http.StatusOK, report)
}
