package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the image service.
// Adapters receive it at construction; business logic never reads the process
// environment directly.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"image-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"IMAGE_API_PORT" envDefault:"8280"`
	LogLevel        string        `env:"IMAGE_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage Backend Selection
	StorageBackend string `env:"IMAGE_STORAGE_BACKEND" envDefault:"aws"` // Options: "aws" or "local"

	// Local Backend Configuration
	LocalStoragePath string `env:"IMAGE_LOCAL_STORAGE_PATH" envDefault:"./local_storage"`
	LocalBaseURL     string `env:"IMAGE_LOCAL_BASE_URL" envDefault:"http://localhost:8280"`

	// AWS Credentials (shared by the S3 and DynamoDB clients)
	AWSRegion      string `env:"IMAGE_AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID string `env:"IMAGE_AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"IMAGE_AWS_SECRET_ACCESS_KEY"`

	// S3 Configuration
	S3Endpoint     string        `env:"IMAGE_S3_ENDPOINT"`
	S3Bucket       string        `env:"IMAGE_S3_BUCKET" envDefault:"image-uploads"`
	S3UsePathStyle bool          `env:"IMAGE_S3_USE_PATH_STYLE" envDefault:"true"`
	PresignTTL     time.Duration `env:"IMAGE_PRESIGN_TTL" envDefault:"3600s"`

	// DynamoDB Configuration
	DynamoTable    string `env:"IMAGE_DYNAMO_TABLE" envDefault:"ImageMetadata"`
	DynamoTagIndex string `env:"IMAGE_DYNAMO_TAG_INDEX" envDefault:"tag-index"`
	DynamoEndpoint string `env:"IMAGE_DYNAMO_ENDPOINT"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.AWSAccessKeyID = strings.TrimSpace(cfg.AWSAccessKeyID)
	cfg.AWSSecretKey = strings.TrimSpace(cfg.AWSSecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalBackend returns true if the local filesystem backend is configured.
func (c *Config) IsLocalBackend() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsAWSBackend returns true if the managed S3/DynamoDB backend is configured.
func (c *Config) IsAWSBackend() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "aws"
}
