package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store resolves stored photo references into time-limited URIs the vision
// vendor can fetch directly. Photos are uploaded by the registry service;
// this engine only reads.
type Store struct {
	client     *minio.Client
	bucketName string
	expiry     time.Duration
}

// New connects to MinIO and verifies the photo bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, expiry time.Duration) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("photo bucket %q does not exist", bucket)
	}

	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Store{client: cli, bucketName: bucket, expiry: expiry}, nil
}

// Resolve returns a presigned GET URI for the object key. The URI expires
// after the configured window, which comfortably covers one analysis run.
func (s *Store) Resolve(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", objectKey, err)
	}
	return u.String(), nil
}
