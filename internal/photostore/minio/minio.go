// Package minio stores photos in an S3-compatible bucket.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vbonduro/foodlens/internal/photostore"
)

type MinioPhotoStore struct {
	client *minio.Client
	bucket string
}

// Connect creates a client for endpoint and makes sure bucket exists.
// Empty credentials connect anonymously.
func Connect(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*MinioPhotoStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
		slog.Info("created photo bucket", "bucket", bucket)
	}

	return NewMinioPhotoStore(client, bucket), nil
}

func NewMinioPhotoStore(client *minio.Client, bucket string) *MinioPhotoStore {
	return &MinioPhotoStore{client: client, bucket: bucket}
}

func (s *MinioPhotoStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	// Photos are small; buffering gives PutObject an exact size and a single request.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	key := photostore.NewKey(prefix, mimeType)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: photostore.MIMEForKey(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return key, nil
}

func (s *MinioPhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storageKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", mapError(err)
	}

	info, err := obj.Stat()
	if err != nil {
		if cerr := obj.Close(); cerr != nil {
			slog.Error("failed to close object", "error", cerr)
		}
		return nil, "", mapError(err)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = photostore.MIMEForKey(storageKey)
	}
	return obj, contentType, nil
}

func (s *MinioPhotoStore) Delete(ctx context.Context, storageKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, storageKey, minio.RemoveObjectOptions{}); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return photostore.ErrNotFound
	}
	return fmt.Errorf("photo storage request failed: %w", err)
}
