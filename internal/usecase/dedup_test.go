package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
)

func TestNoDedup(t *testing.T) {
	duplicate, err := NoDedup{}.IsDuplicate(context.Background(), storedRecord())
	require.NoError(t, err)
	assert.False(t, duplicate)
}

func TestURLDedup(t *testing.T) {
	ctx := context.Background()

	t.Run("unseen and unstored is no duplicate", func(t *testing.T) {
		seen := newMemorySeenRepo()
		dedup := NewURLDedup(seen, newMemoryRecordRepo(), time.Hour, zap.NewNop())

		duplicate, err := dedup.IsDuplicate(ctx, storedRecord())
		require.NoError(t, err)
		assert.False(t, duplicate)
		// A negative verdict must not prime the cache; only a confirmed
		// store write may do that.
		assert.Equal(t, 0, seen.markCalls)
	})

	t.Run("confirmed store write primes the cache", func(t *testing.T) {
		seen := newMemorySeenRepo()
		record := storedRecord()
		dedup := NewURLDedup(seen, newMemoryRecordRepo(), time.Hour, zap.NewNop())

		dedup.MarkStored(ctx, record)

		assert.Equal(t, 1, seen.markCalls)
		duplicate, err := dedup.IsDuplicate(ctx, record)
		require.NoError(t, err)
		assert.True(t, duplicate)
	})

	t.Run("cache hit short-circuits the store", func(t *testing.T) {
		seen := newMemorySeenRepo()
		record := storedRecord()
		seen.seen[record.URL] = true
		dedup := NewURLDedup(seen, newMemoryRecordRepo(), time.Hour, zap.NewNop())

		duplicate, err := dedup.IsDuplicate(ctx, record)
		require.NoError(t, err)
		assert.True(t, duplicate)
	})

	t.Run("stored record is a duplicate", func(t *testing.T) {
		records := newMemoryRecordRepo()
		record := storedRecord()
		_, err := records.Insert(ctx, record)
		require.NoError(t, err)
		dedup := NewURLDedup(newMemorySeenRepo(), records, time.Hour, zap.NewNop())

		duplicate, err := dedup.IsDuplicate(ctx, storedRecord())
		require.NoError(t, err)
		assert.True(t, duplicate)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		seen := newMemorySeenRepo()
		seen.checkErr = assert.AnError
		records := newMemoryRecordRepo()
		_, err := records.Insert(ctx, storedRecord())
		require.NoError(t, err)
		dedup := NewURLDedup(seen, records, time.Hour, zap.NewNop())

		duplicate, err := dedup.IsDuplicate(ctx, storedRecord())
		require.NoError(t, err)
		assert.True(t, duplicate)
	})
}

func TestNewDedupStrategy(t *testing.T) {
	seen := newMemorySeenRepo()
	records := newMemoryRecordRepo()

	t.Run("none", func(t *testing.T) {
		strategy, err := NewDedupStrategy("none", seen, records, time.Hour, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, NoDedup{}, strategy)
	})

	t.Run("url", func(t *testing.T) {
		strategy, err := NewDedupStrategy("url", seen, records, time.Hour, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &URLDedup{}, strategy)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := NewDedupStrategy("fingerprint", seen, records, time.Hour, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestURLDedupDifferentURLs(t *testing.T) {
	records := newMemoryRecordRepo()
	_, err := records.Insert(context.Background(), storedRecord())
	require.NoError(t, err)
	dedup := NewURLDedup(newMemorySeenRepo(), records, time.Hour, zap.NewNop())

	other := storedRecord()
	other.URL = "https://www.yit.sk/predaj-bytov/bratislava/byt-999"
	other.ID = entity.NewID()

	duplicate, err := dedup.IsDuplicate(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, duplicate)
}
