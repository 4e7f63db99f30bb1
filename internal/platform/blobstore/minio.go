package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aniket17200/presentpal/internal/config"
)

// MinioStore implements Store against a MinIO (or any S3-compatible) server.
type MinioStore struct {
	client        *minio.Client
	publicBaseURL string
	logger        *slog.Logger
}

// NewMinioStore connects to the object store described by cfg.
func NewMinioStore(cfg config.StorageConfig, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object store at %s: %w", cfg.Endpoint, err)
	}

	return &MinioStore{
		client:        client,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        logger,
	}, nil
}

// EnsureBuckets creates any of the given buckets that do not exist yet.
func (s *MinioStore) EnsureBuckets(ctx context.Context, buckets []string) error {
	for _, bucket := range buckets {
		err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			exists, existsErr := s.client.BucketExists(ctx, bucket)
			if existsErr == nil && exists {
				continue
			}
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		s.logger.Info("created bucket", "bucket", bucket)
	}
	return nil
}

// Upload writes data under bucket/key, retrying transient failures, and
// returns the object's public URL. PutObject overwrites on key conflict,
// which gives the idempotent re-upload semantics the pipeline relies on.
func (s *MinioStore) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	err := uploadWithRetry(ctx, uploadAttempts, uploadRetryDelay, func() error {
		_, putErr := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		if putErr != nil {
			s.logger.Warn("object upload attempt failed",
				"bucket", bucket,
				"key", key,
				"error", putErr)
		}
		return putErr
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("object uploaded", "bucket", bucket, "key", key, "bytes", len(data))
	return s.PublicURL(bucket, key), nil
}

// PublicURL derives the object's public URL from the configured base URL.
func (s *MinioStore) PublicURL(bucket, key string) string {
	return joinURL(s.publicBaseURL, bucket, key)
}
