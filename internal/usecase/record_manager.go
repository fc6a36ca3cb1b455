package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
)

// ErrUnexpectedDeleteCount means the store reported anything other than
// exactly one deletion for an id it claimed to hold.
var ErrUnexpectedDeleteCount = errors.New("unexpected delete count")

// ErrInvalidRecord wraps a field-level validation failure of a submitted
// record.
var ErrInvalidRecord = errors.New("invalid record")

// RecordManager is the read/write contract exposed to the CRUD collaborator.
type RecordManager interface {
	List(ctx context.Context) ([]entity.Record, error)
	Get(ctx context.Context, id string) (*entity.Record, error)
	Create(ctx context.Context, record *entity.Record) (string, error)
	Delete(ctx context.Context, id string) error
}

type recordManager struct {
	records repository.RecordRepository
	logger  *zap.Logger
}

func NewRecordManager(records repository.RecordRepository, logger *zap.Logger) RecordManager {
	return &recordManager{records: records, logger: logger}
}

func (m *recordManager) List(ctx context.Context) ([]entity.Record, error) {
	return m.records.FindAll(ctx)
}

func (m *recordManager) Get(ctx context.Context, id string) (*entity.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id behaves like an absent one, no internal detail leaks.
		return nil, repository.ErrNotFound
	}
	return m.records.FindByID(ctx, oid)
}

// Create stores a manually submitted record. The origin tag is forced to the
// API value no matter what the caller sent.
func (m *recordManager) Create(ctx context.Context, record *entity.Record) (string, error) {
	record.ID = entity.NewID()
	record.Source = entity.SourceAPI
	if record.Photos == nil {
		record.Photos = []string{}
	}
	if record.History == nil {
		record.History = []entity.Change{}
	}

	if err := record.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	id, err := m.records.Insert(ctx, record)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (m *recordManager) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	count, err := m.records.DeleteByID(ctx, oid)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	if count != 1 {
		m.logger.Error("store deleted an unexpected number of documents",
			zap.String("id", id),
			zap.Int64("count", count))
		return fmt.Errorf("%w: %d documents for %s", ErrUnexpectedDeleteCount, count, id)
	}
	return nil
}
