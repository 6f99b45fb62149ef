package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/infrastructure/storage"
	"imagevault/image-api/internal/interfaces/httpserver/responses"
)

// LocalStoreHandler serves the blob endpoints that back the access handles
// issued by the local object-store substitute. These routes exist only when
// the local backend is configured.
type LocalStoreHandler struct {
	store *storage.LocalStorage
	log   zerolog.Logger
}

func NewLocalStoreHandler(store *storage.LocalStorage, log zerolog.Logger) *LocalStoreHandler {
	return &LocalStoreHandler{
		store: store,
		log:   log.With().Str("component", "local-store-handler").Logger(),
	}
}

// Put handles PUT /local-store/:key, the write side of an upload handle.
func (h *LocalStoreHandler) Put(c *gin.Context) {
	key := c.Param("key")

	written, err := h.store.Put(c.Request.Context(), key, c.Request.Body)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{Status: "error", Message: "invalid key"})
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("local store put failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Status: "error", Message: "failed to store object"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored", "bytes": written})
}

// Get handles GET /local-store/:key, the read side of a download handle.
// Existence is only checked here, never at handle issuance.
func (h *LocalStoreHandler) Get(c *gin.Context) {
	key := c.Param("key")

	reader, contentType, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidKey):
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{Status: "error", Message: "invalid key"})
		case errors.Is(err, os.ErrNotExist):
			c.JSON(http.StatusNotFound, responses.ErrorResponse{Status: "error", Message: "object not found"})
		default:
			h.log.Error().Err(err).Str("key", key).Msg("local store get failed")
			c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Status: "error", Message: "failed to read object"})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("stream error")
	}
}
