// Package blob wraps MinIO/S3 interactions for uploaded documents.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/digitalseva/portal/internal/config"
)

// Store holds the client and the single documents bucket.
type Store struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Store{
		client:    client,
		bucket:    cfg.DocumentsBucket,
		region:    cfg.S3Region,
		publicURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// EnsureBucket makes sure the documents bucket exists before use.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores one document under key.
func (s *Store) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the browser-reachable URL for an uploaded object. The
// bucket is served publicly, so the URL is just base/bucket/key.
func (s *Store) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.publicURL + "/" + s.bucket + "/" + strings.Join(parts, "/")
}

// Remove deletes one object. Used by the cleanup worker for staged uploads
// whose submission never committed and for deleted applications.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
