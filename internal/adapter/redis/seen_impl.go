package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/listing-service/pkg/utils"
)

const seenURLPrefix = "seen:"

// SeenRepoImpl provides a concrete implementation for the SeenRepository
// interface using Redis.
type SeenRepoImpl struct {
	client *redis.Client
}

// NewSeenRepo creates a new instance of SeenRepoImpl.
func NewSeenRepo(client *redis.Client) *SeenRepoImpl {
	return &SeenRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *SeenRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", seenURLPrefix, utils.HashURL(url))
}

// MarkSeen remembers a URL by setting a key in Redis with the given TTL.
func (r *SeenRepoImpl) MarkSeen(ctx context.Context, url string, ttl time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(url), "1", ttl).Err()
}

// IsSeen checks whether a URL was ingested recently.
func (r *SeenRepoImpl) IsSeen(ctx context.Context, url string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

func (r *SeenRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
