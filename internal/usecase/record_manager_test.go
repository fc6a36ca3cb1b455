package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
)

// deleteCountRepo overrides the delete count to provoke the unexpected-count
// branch.
type deleteCountRepo struct {
	*memoryRecordRepo
	deleteCount int64
}

func (r *deleteCountRepo) DeleteByID(context.Context, primitive.ObjectID) (int64, error) {
	return r.deleteCount, nil
}

func TestRecordManagerGet(t *testing.T) {
	ctx := context.Background()
	records := newMemoryRecordRepo()
	manager := NewRecordManager(records, zap.NewNop())

	t.Run("stored record", func(t *testing.T) {
		record := storedRecord()
		_, err := records.Insert(ctx, record)
		require.NoError(t, err)

		got, err := manager.Get(ctx, record.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, record.URL, got.URL)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := manager.Get(ctx, entity.NewID().Hex())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("malformed id reads as absent", func(t *testing.T) {
		_, err := manager.Get(ctx, "not-a-hex-id")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRecordManagerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("forces the api origin and assigns a fresh id", func(t *testing.T) {
		records := newMemoryRecordRepo()
		manager := NewRecordManager(records, zap.NewNop())

		submitted := storedRecord()
		submitted.Source = entity.SourceScraper
		submitted.ID = primitive.NilObjectID
		submitted.Photos = nil
		submitted.History = nil

		id, err := manager.Create(ctx, submitted)
		require.NoError(t, err)
		require.Len(t, id, 24)

		oid, err := primitive.ObjectIDFromHex(id)
		require.NoError(t, err)
		stored, err := records.FindByID(ctx, oid)
		require.NoError(t, err)
		assert.Equal(t, entity.SourceAPI, stored.Source)
		assert.NotNil(t, stored.Photos)
		assert.NotNil(t, stored.History)
	})

	t.Run("invalid record is rejected before the store", func(t *testing.T) {
		records := newMemoryRecordRepo()
		manager := NewRecordManager(records, zap.NewNop())

		submitted := storedRecord()
		submitted.Price.Amount = -5

		_, err := manager.Create(ctx, submitted)
		assert.ErrorIs(t, err, ErrInvalidRecord)
		assert.Equal(t, 0, records.count())
	})
}

func TestRecordManagerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a stored record once", func(t *testing.T) {
		records := newMemoryRecordRepo()
		manager := NewRecordManager(records, zap.NewNop())
		record := storedRecord()
		_, err := records.Insert(ctx, record)
		require.NoError(t, err)

		require.NoError(t, manager.Delete(ctx, record.ID.Hex()))
		assert.Equal(t, 0, records.count())

		// The second delete of the same id finds nothing.
		assert.ErrorIs(t, manager.Delete(ctx, record.ID.Hex()), repository.ErrNotFound)
	})

	t.Run("absent id", func(t *testing.T) {
		manager := NewRecordManager(newMemoryRecordRepo(), zap.NewNop())
		assert.ErrorIs(t, manager.Delete(ctx, entity.NewID().Hex()), repository.ErrNotFound)
	})

	t.Run("malformed id reads as absent", func(t *testing.T) {
		manager := NewRecordManager(newMemoryRecordRepo(), zap.NewNop())
		assert.ErrorIs(t, manager.Delete(ctx, "xyz"), repository.ErrNotFound)
	})

	t.Run("unexpected delete count names the id", func(t *testing.T) {
		records := &deleteCountRepo{memoryRecordRepo: newMemoryRecordRepo(), deleteCount: 2}
		manager := NewRecordManager(records, zap.NewNop())

		id := entity.NewID().Hex()
		err := manager.Delete(ctx, id)
		require.ErrorIs(t, err, ErrUnexpectedDeleteCount)
		assert.Contains(t, err.Error(), id)
	})
}

func TestRecordManagerList(t *testing.T) {
	ctx := context.Background()
	records := newMemoryRecordRepo()
	manager := NewRecordManager(records, zap.NewNop())

	for i := 0; i < 3; i++ {
		record := storedRecord()
		record.ID = entity.NewID()
		record.URL = fmt.Sprintf("https://www.yit.sk/predaj-bytov/byt-%d", i)
		_, err := records.Insert(ctx, record)
		require.NoError(t, err)
	}

	all, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
