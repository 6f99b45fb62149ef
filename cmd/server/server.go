package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	domain "imagevault/image-api/internal/domain/image"
	"imagevault/image-api/internal/infrastructure/logger"
	"imagevault/image-api/internal/infrastructure/metadata"
	"imagevault/image-api/internal/infrastructure/observability"
	"imagevault/image-api/internal/infrastructure/storage"
	"imagevault/image-api/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	localBlobs, err := provideLocalBlobStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize local blob store")
	}

	objectStore, err := provideObjectStore(ctx, cfg, localBlobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize object store")
	}

	metadataStore, err := provideMetadataStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize metadata store")
	}

	ingestService := domain.NewIngestService(objectStore, metadataStore, log)
	queryService := domain.NewQueryService(objectStore, metadataStore, log)
	deleteService := domain.NewDeleteService(objectStore, metadataStore, log)

	httpServer := httpserver.New(cfg, log, ingestService, queryService, deleteService, localBlobs)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// provideLocalBlobStore returns the local filesystem blob store, or nil when
// the managed AWS backend is configured.
func provideLocalBlobStore(cfg *config.Config, log zerolog.Logger) (*storage.LocalStorage, error) {
	if !cfg.IsLocalBackend() {
		return nil, nil
	}
	return storage.NewLocalStorage(cfg, log)
}

// provideObjectStore selects the blob backend based on configuration.
func provideObjectStore(ctx context.Context, cfg *config.Config, localBlobs *storage.LocalStorage, log zerolog.Logger) (domain.ObjectStore, error) {
	if cfg.IsLocalBackend() {
		return localBlobs, nil
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

// provideMetadataStore selects the record backend based on configuration.
func provideMetadataStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.MetadataStore, error) {
	if cfg.IsLocalBackend() {
		return metadata.NewLocalStore(cfg, log)
	}
	return metadata.NewDynamoStore(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
