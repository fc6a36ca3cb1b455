package repository

import "context"

// BlobRepository defines the blob storage contract for listing photos.
type BlobRepository interface {
	// Put uploads one object under the given key.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// EnsureBucket creates the backing bucket if it does not exist yet.
	// Called once at process start, never from the pipeline.
	EnsureBucket(ctx context.Context) error
	// Ping verifies the blob store is reachable.
	Ping(ctx context.Context) error
}
