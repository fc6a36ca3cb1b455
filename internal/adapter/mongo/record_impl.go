package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
)

// RecordRepoImpl provides a concrete implementation for the RecordRepository
// interface using MongoDB.
type RecordRepoImpl struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewRecordRepo creates a new instance of RecordRepoImpl.
func NewRecordRepo(client *mongo.Client, database, collection string) *RecordRepoImpl {
	return &RecordRepoImpl{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

func (r *RecordRepoImpl) FindAll(ctx context.Context) ([]entity.Record, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []entity.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Record, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RecordRepoImpl) FindByURL(ctx context.Context, url string) (*entity.Record, error) {
	return r.findOne(ctx, bson.M{"url": url})
}

func (r *RecordRepoImpl) findOne(ctx context.Context, filter bson.M) (*entity.Record, error) {
	var record entity.Record
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RecordRepoImpl) Insert(ctx context.Context, record *entity.Record) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return record.ID, nil
	}
	return id, nil
}

func (r *RecordRepoImpl) UpdatePhotos(ctx context.Context, id primitive.ObjectID, keys []string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"photos": keys}})
	return err
}

func (r *RecordRepoImpl) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *RecordRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
