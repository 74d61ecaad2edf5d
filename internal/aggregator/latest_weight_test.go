package aggregator

import (
	"context"
	"errors"
	"gymlog/backend/internal/domain"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLatestWeightStore keeps exercise stats in memory and applies updates
// under a mutex, standing in for the store's transaction primitive.
type fakeLatestWeightStore struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]map[string]domain.ExerciseStats
	applies int
	err     error
}

func newFakeLatestWeightStore() *fakeLatestWeightStore {
	return &fakeLatestWeightStore{records: make(map[primitive.ObjectID]map[string]domain.ExerciseStats)}
}

func (s *fakeLatestWeightStore) ApplyExerciseStats(_ context.Context, userID primitive.ObjectID, exerciseKey string, apply func(domain.ExerciseStats) (domain.ExerciseStats, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applies++
	if s.err != nil {
		return s.err
	}
	next, write := apply(s.records[userID][exerciseKey])
	if !write {
		return nil
	}
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]domain.ExerciseStats)
	}
	s.records[userID][exerciseKey] = next
	return nil
}

func (s *fakeLatestWeightStore) stats(userID primitive.ObjectID, key string) domain.ExerciseStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[userID][key]
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func squatLog(userID primitive.ObjectID, weight float64, date string) *LogSnapshot {
	return &LogSnapshot{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		BodyPart: "Legs",
		Exercise: "Squat",
		Weight:   &weight,
		Sets:     3,
		Reps:     5,
		Date:     date,
	}
}

func TestLatestWeightFirstEntry(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	err := agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")})
	require.NoError(t, err)

	got := store.stats(userID, "legs_squat")
	require.Equal(t, domain.ExerciseStats{LatestWeight: 100, LatestDate: "2024-01-01", PreviousWeight: 0}, got)
}

func TestLatestWeightChain(t *testing.T) {
	// Log A then log B one day later: B becomes latest, A's weight becomes
	// previous.
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 110, "2024-01-02")}))

	got := store.stats(userID, "legs_squat")
	require.Equal(t, domain.ExerciseStats{LatestWeight: 110, LatestDate: "2024-01-02", PreviousWeight: 100}, got)
}

func TestLatestWeightOutOfOrderDelivery(t *testing.T) {
	// An event for an older date delivered after a newer one must not win.
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 120, "2024-01-05")}))
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))

	got := store.stats(userID, "legs_squat")
	require.Equal(t, "2024-01-05", got.LatestDate)
	require.Equal(t, 120.0, got.LatestWeight)
}

func TestLatestWeightSameDayTieFavorsIncoming(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))
	// Same-day correction: last write wins, previous slot takes the old value.
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 105, "2024-01-01")}))

	got := store.stats(userID, "legs_squat")
	require.Equal(t, domain.ExerciseStats{LatestWeight: 105, LatestDate: "2024-01-01", PreviousWeight: 100}, got)
}

func TestLatestWeightSkipsDeletes(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))

	// Delete event: after snapshot absent. Stats stay stale on purpose.
	require.NoError(t, agg.Handle(context.Background(), LogChange{Before: squatLog(userID, 100, "2024-01-01")}))

	got := store.stats(userID, "legs_squat")
	require.Equal(t, 100.0, got.LatestWeight)
	require.Equal(t, 1, store.applies) // delete event never reached the store
}

func TestLatestWeightAbortsOnMissingFields(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	incomplete := squatLog(userID, 100, "2024-01-01")
	incomplete.Exercise = ""
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: incomplete}))

	noDate := squatLog(userID, 100, "2024-01-01")
	noDate.Date = ""
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: noDate}))

	require.Equal(t, 0, store.applies)
}

func TestLatestWeightAbortsOnAbsentWeight(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))

	// A document without a weight field decodes to a nil Weight pointer. The
	// event must abort before the store, not record a zero latest weight.
	raw, err := bson.Marshal(bson.M{
		"userId":   userID,
		"bodyPart": "Legs",
		"exercise": "Squat",
		"date":     "2024-01-05",
	})
	require.NoError(t, err)
	var noWeight LogSnapshot
	require.NoError(t, bson.Unmarshal(raw, &noWeight))
	require.Nil(t, noWeight.Weight)

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: &noWeight}))

	got := store.stats(userID, "legs_squat")
	require.Equal(t, domain.ExerciseStats{LatestWeight: 100, LatestDate: "2024-01-01", PreviousWeight: 0}, got)
	require.Equal(t, 1, store.applies)
}

func TestLatestWeightKeysAreIndependent(t *testing.T) {
	store := newFakeLatestWeightStore()
	agg := NewLatestWeightAggregator(store, quietLogger())
	userID := primitive.NewObjectID()

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: squatLog(userID, 100, "2024-01-01")}))

	bench := squatLog(userID, 80, "2024-01-03")
	bench.BodyPart = "Chest"
	bench.Exercise = "Bench Press"
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: bench}))

	require.Equal(t, 100.0, store.stats(userID, "legs_squat").LatestWeight)
	require.Equal(t, 80.0, store.stats(userID, "chest_bench_press").LatestWeight)
}

func TestAggregatorNilLoggerFallsBackToPrefixedDefault(t *testing.T) {
	lw := NewLatestWeightAggregator(newFakeLatestWeightStore(), nil)
	require.Equal(t, "[latest-weight] ", lw.logger.Prefix())

	vl := NewVolumeLoadAggregator(newFakeWorkoutLogSource(), newFakeVolumeLoadStore(), nil)
	require.Equal(t, "[volume-load] ", vl.logger.Prefix())
}

func TestLatestWeightPropagatesStoreError(t *testing.T) {
	store := newFakeLatestWeightStore()
	store.err = errors.New("transaction aborted")
	agg := NewLatestWeightAggregator(store, quietLogger())

	err := agg.Handle(context.Background(), LogChange{After: squatLog(primitive.NewObjectID(), 100, "2024-01-01")})
	require.ErrorContains(t, err, "transaction aborted")
}
