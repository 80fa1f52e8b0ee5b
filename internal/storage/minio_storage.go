package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage archives conversion outputs in a single bucket.
type MinioStorage struct {
	client     minioClient
	bucketName string
}

// compile-time check: *MinioStorage must satisfy port.ResultStore
var _ port.ResultStore = (*MinioStorage)(nil)

func NewStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioStorage, error) {
	logger.Info(context.Background(), "initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{client: client, bucketName: bucket}, nil
}

// InitBucket creates the archive bucket when it is missing.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr(err)
	}
	if ok {
		return nil
	}
	logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucketName)
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func (s *MinioStorage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, contentType string) error {
	logger.Debugf(ctx, "saving file %q into bucket %q...", fileKey, s.bucketName)

	_, err := s.client.PutObject(ctx, s.bucketName, fileKey, reader, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapMinioErr(err)
	}
	return nil
}

// GeneratePresignedDownloadURL returns a link that downloads the object as an
// attachment named after the last segment of its key.
func (s *MinioStorage) GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "generating a presigned download link for file %q in bucket %q...", fileKey, s.bucketName)

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(fileKey)))

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucketName, fileKey, expiry, params)
	if err != nil {
		return "", mapMinioErr(err)
	}
	return presignedURL.String(), nil
}
