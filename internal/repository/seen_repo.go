package repository

import (
	"context"
	"time"
)

// SeenRepository is a fast-path cache of recently ingested listing URLs,
// consulted by the URL dedup strategy before querying the document store.
type SeenRepository interface {
	// MarkSeen remembers a URL for the given TTL.
	MarkSeen(ctx context.Context, url string, ttl time.Duration) error
	// IsSeen checks whether a URL was ingested recently.
	IsSeen(ctx context.Context, url string) (bool, error)
	// Ping verifies the cache connection.
	Ping(ctx context.Context) error
}
