// internal/repository/mongo/latest_weight_repo.go
package mongo

import (
	"context"
	"errors"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const latestWeightCollectionName = "latest-weight"

// mongoLatestWeightRepository implements repository.LatestWeightRepository.
// It needs the client (not just the database) because ApplyExerciseStats runs
// inside a session transaction.
type mongoLatestWeightRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoLatestWeightRepository creates a new latest-weight repository.
func NewMongoLatestWeightRepository(client *mongo.Client, db *mongo.Database) repository.LatestWeightRepository {
	return &mongoLatestWeightRepository{
		client:     client,
		collection: db.Collection(latestWeightCollectionName),
	}
}

// GetByUserID retrieves the full latest-weight document for a user.
func (r *mongoLatestWeightRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.LatestWeightRecord, error) {
	var record domain.LatestWeightRecord
	filter := bson.M{"_id": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ApplyExerciseStats reads the current sub-record for exerciseKey, hands it to
// apply, and merge-writes the result back under that key's dotted paths only.
// The whole read-then-write runs in one session transaction: WithTransaction
// retries transparently when a concurrent commit touches the same document,
// so racing edits (same exercise or sibling keys on the same user) cannot
// interleave and corrupt the previous_weight chain. Returning false from
// apply ends the transaction without a write.
func (r *mongoLatestWeightRepository) ApplyExerciseStats(ctx context.Context, userID primitive.ObjectID, exerciseKey string, apply func(current domain.ExerciseStats) (domain.ExerciseStats, bool)) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var record domain.LatestWeightRecord
		err := r.collection.FindOne(sessCtx, bson.M{"_id": userID}).Decode(&record)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		// Missing document or missing key both yield the zero-value stats;
		// the caller supplies the epoch-date default.
		current := record.Exercises[exerciseKey]

		next, write := apply(current)
		if !write {
			return nil, nil
		}

		prefix := "exercises." + exerciseKey + "."
		update := bson.M{"$set": bson.M{
			prefix + "latest_weight":   next.LatestWeight,
			prefix + "latest_date":     next.LatestDate,
			prefix + "previous_weight": next.PreviousWeight,
		}}
		// Upsert creates the per-user document lazily on the first qualifying
		// write; $set on dotted paths never disturbs sibling exercise keys.
		_, err = r.collection.UpdateOne(sessCtx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
		return nil, err
	})
	return err
}
