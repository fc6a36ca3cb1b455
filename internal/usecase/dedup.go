package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
)

// NoDedup never reports a duplicate. What exactly makes two listings
// duplicates is still an open policy question upstream; until that settles,
// ingestion can run with dedup off.
type NoDedup struct{}

func (NoDedup) IsDuplicate(context.Context, *entity.Record) (bool, error) {
	return false, nil
}

func (NoDedup) MarkStored(context.Context, *entity.Record) {}

// URLDedup treats two records with the same source URL as duplicates. A Redis
// seen-key is the fast path; the document store is the authority.
type URLDedup struct {
	seen    repository.SeenRepository
	records repository.RecordRepository
	ttl     time.Duration
	logger  *zap.Logger
}

func NewURLDedup(seen repository.SeenRepository, records repository.RecordRepository, ttl time.Duration, logger *zap.Logger) *URLDedup {
	return &URLDedup{seen: seen, records: records, ttl: ttl, logger: logger}
}

func (d *URLDedup) IsDuplicate(ctx context.Context, candidate *entity.Record) (bool, error) {
	seen, err := d.seen.IsSeen(ctx, candidate.URL)
	if err != nil {
		// Cache down means no fast path, not no answer.
		d.logger.Warn("seen-cache check failed, falling back to the store", zap.Error(err))
	} else if seen {
		return true, nil
	}

	_, err = d.records.FindByURL(ctx, candidate.URL)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// The cache is not primed here. A negative verdict only means the
		// record may proceed; whether it reaches the store is not decided
		// yet, and a seen-key for an unstored record would shadow it for
		// the whole TTL.
		return false, nil
	case err != nil:
		return false, err
	default:
		d.markSeen(ctx, candidate.URL)
		return true, nil
	}
}

// MarkStored primes the seen cache once the record is actually in the store.
func (d *URLDedup) MarkStored(ctx context.Context, candidate *entity.Record) {
	d.markSeen(ctx, candidate.URL)
}

func (d *URLDedup) markSeen(ctx context.Context, url string) {
	if err := d.seen.MarkSeen(ctx, url, d.ttl); err != nil {
		d.logger.Warn("failed to mark URL as seen", zap.String("url", url), zap.Error(err))
	}
}

// NewDedupStrategy picks a strategy by its configured name.
func NewDedupStrategy(
	name string,
	seen repository.SeenRepository,
	records repository.RecordRepository,
	ttl time.Duration,
	logger *zap.Logger,
) (repository.DedupStrategy, error) {
	switch name {
	case "none":
		return NoDedup{}, nil
	case "url":
		return NewURLDedup(seen, records, ttl, logger), nil
	default:
		return nil, fmt.Errorf("unknown dedup strategy %q", name)
	}
}
