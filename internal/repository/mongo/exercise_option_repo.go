// internal/repository/mongo/exercise_option_repo.go
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

const exerciseOptionCollectionName = "exercises"

// mongoExerciseOptionRepository implements repository.ExerciseOptionRepository
type mongoExerciseOptionRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseOptionRepository creates a new exercise preset repository.
func NewMongoExerciseOptionRepository(db *mongo.Database) repository.ExerciseOptionRepository {
	return &mongoExerciseOptionRepository{
		collection: db.Collection(exerciseOptionCollectionName),
	}
}

// Create inserts a new exercise preset.
func (r *mongoExerciseOptionRepository) Create(ctx context.Context, option *domain.ExerciseOption) (primitive.ObjectID, error) {
	if option.UserID == primitive.NilObjectID || option.BodyPart == "" || option.Exercise == "" {
		return primitive.NilObjectID, errors.New("exercise option requires userId, bodyPart, and exercise")
	}
	option.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	option.CreatedAt = now
	option.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, option)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted exercise option ID")
	}
	return insertedID, nil
}

// FindByUserID retrieves all exercise presets for a user.
func (r *mongoExerciseOptionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseOption, error) {
	var presets []domain.ExerciseOption
	findOptions := options.Find().SetSort(bson.D{{Key: "bodyPart", Value: 1}, {Key: "exercise", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &presets); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return presets, nil
}

// Delete removes an exercise preset, scoped to its owner.
func (r *mongoExerciseOptionRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("exercise option ID and user ID are required for deletion")
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

// EnsureExerciseOptionIndexes creates necessary indexes. Call during startup.
func EnsureExerciseOptionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
