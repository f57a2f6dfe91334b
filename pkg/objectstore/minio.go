package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/noah-isme/share2teach-api/pkg/config"
)

// MinIO stores documents in an S3 compatible bucket.
type MinIO struct {
	client   *minio.Client
	bucket   string
	baseURL  string
	maxBytes int64
}

// NewMinIO connects to the endpoint and makes sure the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, maxBytes int64) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "share2teach"
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}

	return &MinIO{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(base, "/") + "/" + bucket + "/",
		maxBytes: maxBytes,
	}, nil
}

func (m *MinIO) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: put %s: %w", name, err)
	}
	return m.baseURL + url.PathEscape(name), nil
}

func (m *MinIO) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key, err := m.keyFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %s: %w", key, err)
	}
	defer obj.Close() //nolint:errcheck

	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("minio: stat %s: %w", key, err)
	}
	data, err := readLimited(obj, m.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("minio: get %s: %w", key, err)
	}
	return data, nil
}

func (m *MinIO) Delete(ctx context.Context, rawURL string) error {
	key, err := m.keyFromURL(rawURL)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: delete %s: %w", key, err)
	}
	return nil
}

func (m *MinIO) keyFromURL(rawURL string) (string, error) {
	return keyFromURL(m.baseURL, rawURL)
}

func keyFromURL(base, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, base) {
		return "", fmt.Errorf("objectstore: %q is not served by this store", rawURL)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, base))
	if err != nil || key == "" {
		return "", fmt.Errorf("objectstore: invalid object url %q", rawURL)
	}
	return key, nil
}
