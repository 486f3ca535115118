package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"vo-directory/internal/gateway"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL overrides the endpoint in returned object URLs, e.g. a CDN.
	PublicURL string
	Buckets   map[gateway.Bucket]string
}

// MinIOStorage implements gateway.FileStorage on top of an S3 compatible
// object store. Buckets are readable anonymously so stored URLs can be used
// directly by the pages.
type MinIOStorage struct {
	client    *minio.Client
	publicURL string
	buckets   map[gateway.Bucket]string
}

var _ gateway.FileStorage = (*MinIOStorage)(nil)

func NewMinIOStorage(ctx context.Context, cfg Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}

	s := &MinIOStorage{client: client, publicURL: publicURL, buckets: cfg.Buckets}
	if err := s.ensureBuckets(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

func (s *MinIOStorage) ensureBuckets(ctx context.Context) error {
	for _, name := range s.buckets {
		exists, err := s.client.BucketExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", name, err)
		}
		if err := s.client.SetBucketPolicy(ctx, name, publicReadPolicy(name)); err != nil {
			return fmt.Errorf("failed to set policy on %s: %w", name, err)
		}
	}
	return nil
}

func (s *MinIOStorage) bucketName(b gateway.Bucket) (string, error) {
	name, ok := s.buckets[b]
	if !ok {
		return "", fmt.Errorf("unknown bucket %q", b)
	}
	return name, nil
}

func (s *MinIOStorage) Upload(ctx context.Context, b gateway.Bucket, key string, data []byte, contentType string) (string, error) {
	bucket, err := s.bucketName(b)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, key), nil
}

func (s *MinIOStorage) Delete(ctx context.Context, b gateway.Bucket, key string) error {
	bucket, err := s.bucketName(b)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
