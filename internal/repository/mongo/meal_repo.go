// internal/repository/mongo/meal_repo.go
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

const (
	mealCollectionName       = "daily-meals"
	mealOptionCollectionName = "meal-options"
)

// mongoMealRepository implements repository.MealRepository
type mongoMealRepository struct {
	collection *mongo.Collection
}

// NewMongoMealRepository creates a new daily-meals repository.
func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(mealCollectionName),
	}
}

// Create inserts a new meal entry.
func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.UserID == primitive.NilObjectID || meal.Date == "" || meal.Name == "" {
		return primitive.NilObjectID, errors.New("meal requires userId, date, and name")
	}
	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single meal by its ID.
func (r *mongoMealRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &meal, nil
}

// FindByUserAndDate retrieves all meals for a user on one day.
func (r *mongoMealRepository) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.Meal, error) {
	var meals []domain.Meal
	filter := bson.M{"userId": userID, "date": date}
	findOptions := options.Find().SetSort(bson.D{{Key: "mealType", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return meals, nil
}

// Update overwrites the mutable fields of an existing meal, scoped to its owner.
func (r *mongoMealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	if meal.ID == primitive.NilObjectID || meal.UserID == primitive.NilObjectID {
		return errors.New("meal ID and user ID are required for update")
	}

	filter := bson.M{"_id": meal.ID, "userId": meal.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":      meal.Date,
			"mealType":  meal.MealType,
			"name":      meal.Name,
			"calories":  meal.Calories,
			"protein":   meal.Protein,
			"carbs":     meal.Carbs,
			"fat":       meal.Fat,
			"updatedAt": time.Now().UTC(),
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

// Delete removes a meal, scoped to its owner.
func (r *mongoMealRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("meal ID and user ID are required for deletion")
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

// EnsureMealIndexes creates necessary indexes. Call during startup.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) {
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

// --- Meal options ---

// mongoMealOptionRepository implements repository.MealOptionRepository
type mongoMealOptionRepository struct {
	collection *mongo.Collection
}

// NewMongoMealOptionRepository creates a new meal-options repository.
func NewMongoMealOptionRepository(db *mongo.Database) repository.MealOptionRepository {
	return &mongoMealOptionRepository{
		collection: db.Collection(mealOptionCollectionName),
	}
}

// Create inserts a new meal option preset.
func (r *mongoMealOptionRepository) Create(ctx context.Context, option *domain.MealOption) (primitive.ObjectID, error) {
	if option.UserID == primitive.NilObjectID || option.Name == "" {
		return primitive.NilObjectID, errors.New("meal option requires userId and name")
	}
	option.ID = primitive.NewObjectID()
	option.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, option)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal option ID")
	}
	return insertedID, nil
}

// FindByUserID retrieves all meal option presets for a user.
func (r *mongoMealOptionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.MealOption, error) {
	var presets []domain.MealOption
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
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

// Delete removes a meal option preset, scoped to its owner.
func (r *mongoMealOptionRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("meal option ID and user ID are required for deletion")
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
