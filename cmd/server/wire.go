//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"imagevault/image-api/internal/config"
	domain "imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/infrastructure/logger"
	"imagevault/image-api/internal/interfaces/httpserver"
)

var imageSet = wire.NewSet(
	provideLocalBlobStore,
	provideObjectStore,
	provideMetadataStore,
	domain.NewIngestService,
	domain.NewQueryService,
	domain.NewDeleteService,
)

// BuildApplication assembles the image API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		imageSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
