package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"imagevault/image-api/internal/config"
	"imagevault/image-api/internal/infrastructure/metrics"
)

var errStorageDisabled = errors.New("object storage backend is not configured; set IMAGE_S3_* to enable uploads")

// S3Storage issues presigned access URLs and deletes objects in S3-compatible
// storage.
type S3Storage struct {
	bucket   string
	client   *s3.Client
	presign  *s3.PresignClient
	ttl      time.Duration
	log      zerolog.Logger
	disabled bool
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket: strings.TrimSpace(cfg.S3Bucket),
		ttl:    cfg.PresignTTL,
		log:    logger,
	}

	accessKey := strings.TrimSpace(cfg.AWSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.AWSSecretKey)
	if storage.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Warn().Msg("IMAGE_S3_BUCKET or credentials are not set; uploads will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.AWSRegion,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	storage.client = client
	storage.presign = s3.NewPresignClient(client)
	return storage, nil
}

func (s *S3Storage) ensureEnabled() error {
	if s.disabled {
		return errStorageDisabled
	}
	return nil
}

// PresignPut returns a time-limited URL the client can PUT the blob to. The
// key is not checked for prior use.
func (s *S3Storage) PresignPut(ctx context.Context, key string) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	start := time.Now()
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	metrics.RecordPresign(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordStorageOperation("s3", "presign_put", "error", time.Since(start).Seconds())
		return "", fmt.Errorf("presign put for %q: %w", key, err)
	}
	metrics.RecordStorageOperation("s3", "presign_put", "success", time.Since(start).Seconds())
	return req.URL, nil
}

// PresignGet returns a time-limited download URL. S3 presigns regardless of
// object existence; a missing key only surfaces as 404 at GET time.
func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	start := time.Now()
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	metrics.RecordPresign(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordStorageOperation("s3", "presign_get", "error", time.Since(start).Seconds())
		return "", fmt.Errorf("presign get for %q: %w", key, err)
	}
	metrics.RecordStorageOperation("s3", "presign_get", "success", time.Since(start).Seconds())
	return req.URL, nil
}

// Delete removes the object. S3 deletes are idempotent; a nonexistent key is
// not an error.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordStorageOperation("s3", "delete", "error", time.Since(start).Seconds())
		return fmt.Errorf("delete %q from %q: %w", key, s.bucket, err)
	}
	metrics.RecordStorageOperation("s3", "delete", "success", time.Since(start).Seconds())
	return nil
}

// Health performs a simple HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
