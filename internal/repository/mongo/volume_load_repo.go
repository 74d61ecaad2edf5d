// internal/repository/mongo/volume_load_repo.go
package mongo

import (
	"context"
	"errors"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const volumeLoadCollectionName = "daily-volume-load"

// mongoVolumeLoadRepository implements repository.VolumeLoadRepository
type mongoVolumeLoadRepository struct {
	collection *mongo.Collection
}

// NewMongoVolumeLoadRepository creates a new daily-volume-load repository.
func NewMongoVolumeLoadRepository(db *mongo.Database) repository.VolumeLoadRepository {
	return &mongoVolumeLoadRepository{
		collection: db.Collection(volumeLoadCollectionName),
	}
}

// FindOneByUserAndDate looks up the record for one (user, date) pair by
// filter. At most one is expected to exist; FindOne caps the result at 1.
func (r *mongoVolumeLoadRepository) FindOneByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error) {
	var record domain.DailyVolumeLoad
	filter := bson.M{"userId": userID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByUserAndDateRange retrieves records for a date interval (inclusive),
// newest first. String range comparison is exact for "YYYY-MM-DD".
func (r *mongoVolumeLoadRepository) FindByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyVolumeLoad, error) {
	var records []domain.DailyVolumeLoad
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": startDate, "$lte": endDate},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a new record for a (user, date) pair.
func (r *mongoVolumeLoadRepository) Create(ctx context.Context, record *domain.DailyVolumeLoad) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID || record.Date == "" {
		return primitive.NilObjectID, errors.New("volume load record requires userId and date")
	}
	record.ID = primitive.NewObjectID()
	record.UpdatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted volume load ID")
	}
	return insertedID, nil
}

// SetVolume overwrites the volumeLoad field of an existing record by ID.
func (r *mongoVolumeLoadRepository) SetVolume(ctx context.Context, id primitive.ObjectID, volumeLoad float64) error {
	if id == primitive.NilObjectID {
		return errors.New("volume load record ID is required for update")
	}

	filter := bson.M{"_id": id}
	updateDoc := bson.M{
		"$set": bson.M{
			"volumeLoad": volumeLoad,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureVolumeLoadIndexes creates necessary indexes. Call during startup.
func EnsureVolumeLoadIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
