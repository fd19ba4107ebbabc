package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioClient is the subset of the MinIO API we use.
// Narrowed to an interface so tests can fake object storage.
type minioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// S3Options configures the S3 image backend.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // Base URL the bucket is served from
}

// S3Storage stores images in S3-compatible object storage via MinIO.
type S3Storage struct {
	client    minioClient
	bucket    string
	publicURL string
}

// NewS3Storage creates an S3-backed image store.
func NewS3Storage(opts S3Options) (*S3Storage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Storage{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
	}, nil
}

// Save stores image data under the given key.
func (s *S3Storage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload image %s: %w", key, err)
	}

	return nil
}

// Get retrieves image data by key.
func (s *S3Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get image %s: %w", key, err)
	}
	defer obj.Close() //nolint:errcheck // Read errors surface below

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", key, err)
	}

	return data, nil
}

// Exists reports whether an object exists for the key.
func (s *S3Storage) Exists(ctx context.Context, key string) bool {
	if key == "" {
		return false
	}

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

// Delete removes an object. Missing objects are not an error.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("delete image %s: %w", key, err)
	}

	return nil
}

// URL returns the public URL for the key.
func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + key
}
