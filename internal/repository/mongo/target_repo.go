// internal/repository/mongo/target_repo.go
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

const targetCollectionName = "daily-target"

// mongoDailyTargetRepository implements repository.DailyTargetRepository
type mongoDailyTargetRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyTargetRepository creates a new daily-target repository.
func NewMongoDailyTargetRepository(db *mongo.Database) repository.DailyTargetRepository {
	return &mongoDailyTargetRepository{
		collection: db.Collection(targetCollectionName),
	}
}

// Create inserts a new daily target.
func (r *mongoDailyTargetRepository) Create(ctx context.Context, target *domain.DailyTarget) (primitive.ObjectID, error) {
	if target.UserID == primitive.NilObjectID || target.Date == "" {
		return primitive.NilObjectID, errors.New("daily target requires userId and date")
	}
	target.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	target.CreatedAt = now
	target.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, target)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted target ID")
	}
	return insertedID, nil
}

// FindByUserAndDate retrieves the targets set for one day.
func (r *mongoDailyTargetRepository) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.DailyTarget, error) {
	return r.find(ctx, bson.M{"userId": userID, "date": date})
}

// FindByUserAndDateRange retrieves targets for a date interval (inclusive),
// newest first.
func (r *mongoDailyTargetRepository) FindByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyTarget, error) {
	return r.find(ctx, bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": startDate, "$lte": endDate},
	})
}

func (r *mongoDailyTargetRepository) find(ctx context.Context, filter bson.M) ([]domain.DailyTarget, error) {
	var targets []domain.DailyTarget
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &targets); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

// Update overwrites the mutable fields of an existing target, scoped to its owner.
func (r *mongoDailyTargetRepository) Update(ctx context.Context, target *domain.DailyTarget) error {
	if target.ID == primitive.NilObjectID || target.UserID == primitive.NilObjectID {
		return errors.New("target ID and user ID are required for update")
	}

	filter := bson.M{"_id": target.ID, "userId": target.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":       target.Date,
			"calories":   target.Calories,
			"protein":    target.Protein,
			"carbs":      target.Carbs,
			"fat":        target.Fat,
			"volumeLoad": target.VolumeLoad,
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

// Delete removes a target, scoped to its owner.
func (r *mongoDailyTargetRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("target ID and user ID are required for deletion")
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
