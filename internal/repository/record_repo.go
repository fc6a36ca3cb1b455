package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/listing-service/internal/entity"
)

// RecordRepository defines the document store contract for canonical records.
type RecordRepository interface {
	// FindAll retrieves every stored record.
	FindAll(ctx context.Context) ([]entity.Record, error)
	// FindByID retrieves one record, or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Record, error)
	// FindByURL retrieves one record by its source URL, or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*entity.Record, error)
	// Insert stores a new record and returns its id.
	Insert(ctx context.Context, record *entity.Record) (primitive.ObjectID, error)
	// UpdatePhotos replaces the stored photo list with final blob storage keys.
	UpdatePhotos(ctx context.Context, id primitive.ObjectID, keys []string) error
	// DeleteByID removes one record and returns the number of deleted documents.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	// Ping verifies the store connection.
	Ping(ctx context.Context) error
}
