// internal/aggregator/latest_weight.go
package aggregator

import (
	"context"
	"gymlog/backend/internal/domain"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LatestWeightStore is the slice of the latest-weight repository the
// aggregator needs. The read-modify-write handed to ApplyExerciseStats must
// execute inside the store's transaction primitive, with conflicting
// concurrent commits retried transparently.
type LatestWeightStore interface {
	ApplyExerciseStats(ctx context.Context, userID primitive.ObjectID, exerciseKey string, apply func(current domain.ExerciseStats) (domain.ExerciseStats, bool)) error
}

// LatestWeightAggregator maintains the rolling latest/previous weight pair
// per (user, exercise) whenever a workout log changes. Ordering between
// events is enforced by the date gate inside the transaction, not by arrival
// order: last-logical-write-wins by the log's date string.
type LatestWeightAggregator struct {
	latestWeights LatestWeightStore
	logger        *log.Logger
}

// NewLatestWeightAggregator constructs the aggregator. A nil logger falls
// back to the process default.
func NewLatestWeightAggregator(latestWeights LatestWeightStore, logger *log.Logger) *LatestWeightAggregator {
	if logger == nil {
		logger = log.New(log.Writer(), "[latest-weight] ", log.LstdFlags)
	}
	return &LatestWeightAggregator{
		latestWeights: latestWeights,
		logger:        logger,
	}
}

// Name identifies this handler in logs and metrics.
func (a *LatestWeightAggregator) Name() string { return "latest-weight" }

// Handle processes one workout log change.
//
// Deletions are skipped on purpose: recomputing the latest/previous pair
// after a delete would require scanning log history, which this aggregator
// does not do. The derived record stays stale until a later write corrects it.
// Validation failures abort silently (logged only) since the invocation has
// no synchronous caller. Only store I/O failures propagate as errors.
func (a *LatestWeightAggregator) Handle(ctx context.Context, change LogChange) error {
	if change.After == nil {
		a.logger.Printf("document deleted, skipping sync")
		return nil
	}

	entry := change.After
	if entry.UserID == primitive.NilObjectID || entry.BodyPart == "" || entry.Exercise == "" || entry.Date == "" || entry.Weight == nil {
		a.logger.Printf("missing critical data in log, aborting sync (user=%s)", entry.UserID.Hex())
		return nil
	}
	weight := *entry.Weight

	exerciseKey := ExerciseKey(entry.BodyPart, entry.Exercise)

	return a.latestWeights.ApplyExerciseStats(ctx, entry.UserID, exerciseKey, func(current domain.ExerciseStats) (domain.ExerciseStats, bool) {
		oldLatestWeight := current.LatestWeight
		oldLatestDate := current.LatestDate
		if oldLatestDate == "" {
			oldLatestDate = domain.EpochDate
		}

		// String comparison is exact for "YYYY-MM-DD". An older write must
		// not overwrite the current winner; ties favor the incoming write
		// (last-write-wins for same-day edits).
		if entry.Date < oldLatestDate {
			a.logger.Printf("log is older than current latest for %s, stats unchanged", exerciseKey)
			return current, false
		}

		a.logger.Printf("updating %s: latest=%g previous=%g", exerciseKey, weight, oldLatestWeight)
		return domain.ExerciseStats{
			LatestWeight:   weight,
			LatestDate:     entry.Date,
			PreviousWeight: oldLatestWeight,
		}, true
	})
}
