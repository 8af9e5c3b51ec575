package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig holds the connection settings of an S3 compatible endpoint
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStorage implements Storage on top of MinIO or any S3 compatible service
type MinIOStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinIOStorage connects to the endpoint and creates the bucket when it is missing
func NewMinIOStorage(ctx context.Context, cfg MinIOConfig, logger *zap.Logger) (*MinIOStorage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	logger.Info("MinIO storage initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)

	return &MinIOStorage{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Upload stores a document under documents/<uuid><ext>.
// The size is unknown up front so the object is sent as a multipart upload.
func (s *MinIOStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	key := path.Join("documents", uuid.New().String()+path.Ext(filename))

	info, err := s.client.PutObject(ctx, s.bucket, key, data, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return key, info.Size, nil
}

// Delete removes an object
func (s *MinIOStorage) Delete(ctx context.Context, storagePath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, storagePath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", storagePath, err)
	}
	return nil
}

// URL returns the path-style object URL
func (s *MinIOStorage) URL(storagePath string) string {
	return strings.TrimRight(s.client.EndpointURL().String(), "/") + "/" + s.bucket + "/" + storagePath
}
