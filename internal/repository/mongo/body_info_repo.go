// internal/repository/mongo/body_info_repo.go
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

const bodyInfoCollectionName = "body-info"

// mongoBodyInfoRepository implements repository.BodyInfoRepository
type mongoBodyInfoRepository struct {
	collection *mongo.Collection
}

// NewMongoBodyInfoRepository creates a new body-info repository.
func NewMongoBodyInfoRepository(db *mongo.Database) repository.BodyInfoRepository {
	return &mongoBodyInfoRepository{
		collection: db.Collection(bodyInfoCollectionName),
	}
}

// Create inserts a new body measurement.
func (r *mongoBodyInfoRepository) Create(ctx context.Context, info *domain.BodyInfo) (primitive.ObjectID, error) {
	if info.UserID == primitive.NilObjectID || info.Date == "" {
		return primitive.NilObjectID, errors.New("body info requires userId and date")
	}
	info.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	info.CreatedAt = now
	info.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, info)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted body info ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single measurement by its ID.
func (r *mongoBodyInfoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BodyInfo, error) {
	var info domain.BodyInfo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&info)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

// FindByUserID retrieves all measurements for a user, newest first.
func (r *mongoBodyInfoRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.BodyInfo, error) {
	var infos []domain.BodyInfo
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &infos); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Update overwrites the mutable fields of a measurement, scoped to its owner.
func (r *mongoBodyInfoRepository) Update(ctx context.Context, info *domain.BodyInfo) error {
	if info.ID == primitive.NilObjectID || info.UserID == primitive.NilObjectID {
		return errors.New("body info ID and user ID are required for update")
	}

	filter := bson.M{"_id": info.ID, "userId": info.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":           info.Date,
			"height":         info.Height,
			"weight":         info.Weight,
			"bodyFat":        info.BodyFat,
			"muscleMass":     info.MuscleMass,
			"photoObjectKey": info.PhotoObjectKey,
			"updatedAt":      time.Now().UTC(),
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

// Delete removes a measurement, scoped to its owner.
func (r *mongoBodyInfoRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("body info ID and user ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
