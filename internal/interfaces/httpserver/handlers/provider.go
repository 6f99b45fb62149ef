package handlers

import (
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	domain "imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/infrastructure/storage"
)

// Provider wires HTTP handlers. LocalStore is nil unless the local backend
// is configured.
type Provider struct {
	Image      *ImageHandler
	LocalStore *LocalStoreHandler
}

func NewProvider(cfg *config.Config, ingest *domain.IngestService, query *domain.QueryService, deletion *domain.DeleteService, localBlobs *storage.LocalStorage, log zerolog.Logger) *Provider {
	provider := &Provider{
		Image: NewImageHandler(cfg, ingest, query, deletion, log),
	}
	if localBlobs != nil {
		provider.LocalStore = NewLocalStoreHandler(localBlobs, log)
	}
	return provider
}
