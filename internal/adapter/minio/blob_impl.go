package minio

import (
	"bytes"
	"context"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobRepoImpl provides a concrete implementation for the BlobRepository
// interface using MinIO object storage.
type BlobRepoImpl struct {
	client *miniogo.Client
	bucket string
}

// NewBlobRepo creates a MinIO-backed blob repository.
func NewBlobRepo(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*BlobRepoImpl, error) {
	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &BlobRepoImpl{client: client, bucket: bucket}, nil
}

func (r *BlobRepoImpl) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := r.client.PutObject(
		ctx,
		r.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		miniogo.PutObjectOptions{ContentType: contentType},
	)
	return err
}

// EnsureBucket creates the bucket if it does not exist. Bootstrap concern;
// the pipeline assumes the bucket is there.
func (r *BlobRepoImpl) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.client.MakeBucket(ctx, r.bucket, miniogo.MakeBucketOptions{})
}

func (r *BlobRepoImpl) Ping(ctx context.Context) error {
	_, err := r.client.BucketExists(ctx, r.bucket)
	return err
}
