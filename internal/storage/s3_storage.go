// Package storage keeps confirmation attachments in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var _ ports.ObjectStorage = (*S3ObjectStorage)(nil)

const defaultPresignExpiration = 15 * time.Minute

// S3ObjectStorage works against AWS S3 or any compatible server (MinIO, Supabase storage).
type S3ObjectStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *slog.Logger
}

// Option configures S3ObjectStorage.
type Option func(*S3ObjectStorage)

// WithLogger sets the logger used for bucket housekeeping.
func WithLogger(logger *slog.Logger) Option {
	return func(s *S3ObjectStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration overrides how long signed download URLs stay valid.
func WithPresignExpiration(d time.Duration) Option {
	return func(s *S3ObjectStorage) {
		s.presignExpiration = d
	}
}

// NewS3ObjectStorage validates the configuration and builds the client.
func NewS3ObjectStorage(cfg *config.StorageConfig, opts ...Option) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	var endpoint string
	if cfg.Endpoint != "" {
		endpoint = cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	storage := &S3ObjectStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiration,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.presignExpiration <= 0 {
		storage.presignExpiration = defaultPresignExpiration
	}
	return storage, nil
}

// Bucket returns the bucket name.
func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when it is missing. Called once at startup.
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating attachment bucket", slog.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload puts an object. Non-seekable bodies are buffered because the SDK
// signs the payload before sending it over plain HTTP.
func (s *S3ObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("failed to read upload body: %w", err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// SignedURL returns a time-limited download link for the object.
func (s *S3ObjectStorage) SignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, nil
}

// Delete removes the object. Deleting a missing key is not an error on S3.
func (s *S3ObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
