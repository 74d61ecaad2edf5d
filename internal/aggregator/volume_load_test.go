package aggregator

import (
	"context"
	"errors"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeWorkoutLogSource serves logs keyed by (user, date).
type fakeWorkoutLogSource struct {
	mu   sync.Mutex
	logs map[dayKey][]domain.WorkoutLog
	errs map[dayKey]error
}

func newFakeWorkoutLogSource() *fakeWorkoutLogSource {
	return &fakeWorkoutLogSource{
		logs: make(map[dayKey][]domain.WorkoutLog),
		errs: make(map[dayKey]error),
	}
}

func (s *fakeWorkoutLogSource) add(log domain.WorkoutLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey{log.UserID, log.Date}
	s.logs[key] = append(s.logs[key], log)
}

func (s *fakeWorkoutLogSource) removeAll(userID primitive.ObjectID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, dayKey{userID, date})
}

func (s *fakeWorkoutLogSource) FindByUserAndDate(_ context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey{userID, date}
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return append([]domain.WorkoutLog(nil), s.logs[key]...), nil
}

// fakeVolumeLoadStore keeps daily-volume-load records in memory.
type fakeVolumeLoadStore struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*domain.DailyVolumeLoad
	creates int
	sets    int
}

func newFakeVolumeLoadStore() *fakeVolumeLoadStore {
	return &fakeVolumeLoadStore{records: make(map[primitive.ObjectID]*domain.DailyVolumeLoad)}
}

func (s *fakeVolumeLoadStore) FindOneByUserAndDate(_ context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.UserID == userID && record.Date == date {
			copied := *record
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeVolumeLoadStore) Create(_ context.Context, record *domain.DailyVolumeLoad) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	id := primitive.NewObjectID()
	stored := *record
	stored.ID = id
	s.records[id] = &stored
	return id, nil
}

func (s *fakeVolumeLoadStore) SetVolume(_ context.Context, id primitive.ObjectID, volumeLoad float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	record, ok := s.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	record.VolumeLoad = volumeLoad
	return nil
}

func (s *fakeVolumeLoadStore) volume(t *testing.T, userID primitive.ObjectID, date string) float64 {
	t.Helper()
	record, err := s.FindOneByUserAndDate(context.Background(), userID, date)
	require.NoError(t, err)
	return record.VolumeLoad
}

// snapshotOf builds the change stream view of a stored log.
func snapshotOf(log domain.WorkoutLog) *LogSnapshot {
	weight := log.Weight
	return &LogSnapshot{
		ID:       log.ID,
		UserID:   log.UserID,
		BodyPart: log.BodyPart,
		Exercise: log.Exercise,
		Weight:   &weight,
		Sets:     log.Sets,
		Reps:     log.Reps,
		Date:     log.Date,
	}
}

func volumeAggregatorFixture() (*fakeWorkoutLogSource, *fakeVolumeLoadStore, *VolumeLoadAggregator) {
	source := newFakeWorkoutLogSource()
	store := newFakeVolumeLoadStore()
	return source, store, NewVolumeLoadAggregator(source, store, quietLogger())
}

func TestVolumeLoadSumsAllSetsForDay(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	first := domain.WorkoutLog{UserID: userID, BodyPart: "Legs", Exercise: "Squat", Weight: 50, Sets: 3, Reps: 10, Date: "2024-02-01"}
	second := domain.WorkoutLog{UserID: userID, BodyPart: "Legs", Exercise: "Lunge", Weight: 20, Sets: 4, Reps: 12, Date: "2024-02-01"}
	source.add(first)
	source.add(second)

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: snapshotOf(second)}))

	// 50*3*10 + 20*4*12 = 1500 + 960
	require.Equal(t, 2460.0, store.volume(t, userID, "2024-02-01"))
	require.Equal(t, 1, store.creates)
}

func TestVolumeLoadReplayIsIdempotent(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	entry := domain.WorkoutLog{UserID: userID, Weight: 100, Sets: 3, Reps: 5, Date: "2024-02-01"}
	source.add(entry)

	change := LogChange{After: snapshotOf(entry)}
	require.NoError(t, agg.Handle(context.Background(), change))
	require.NoError(t, agg.Handle(context.Background(), change))

	// Full recomputation, not accumulation: replay converges on the same value.
	require.Equal(t, 1500.0, store.volume(t, userID, "2024-02-01"))
	require.Equal(t, 1, store.creates)
	require.Equal(t, 1, store.sets)
}

func TestVolumeLoadDateEditRecomputesBothDays(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	moved := domain.WorkoutLog{UserID: userID, Weight: 100, Sets: 2, Reps: 5, Date: "2024-03-01"}
	staying := domain.WorkoutLog{UserID: userID, Weight: 60, Sets: 3, Reps: 8, Date: "2024-03-01"}
	source.add(moved)
	source.add(staying)

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: snapshotOf(moved)}))
	require.Equal(t, 100.0*2*5+60*3*8, store.volume(t, userID, "2024-03-01"))

	// Edit moves the log to the next day: both days must be recomputed from
	// current source data.
	source.removeAll(userID, "2024-03-01")
	source.add(staying)
	edited := moved
	edited.Date = "2024-03-02"
	source.add(edited)

	require.NoError(t, agg.Handle(context.Background(), LogChange{Before: snapshotOf(moved), After: snapshotOf(edited)}))

	require.Equal(t, 60.0*3*8, store.volume(t, userID, "2024-03-01"))
	require.Equal(t, 100.0*2*5, store.volume(t, userID, "2024-03-02"))
}

func TestVolumeLoadDeleteDropsToZeroButKeepsRecord(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	entry := domain.WorkoutLog{UserID: userID, Weight: 100, Sets: 3, Reps: 5, Date: "2024-02-01"}
	source.add(entry)
	require.NoError(t, agg.Handle(context.Background(), LogChange{After: snapshotOf(entry)}))

	// Last log for the day deleted: record persists with volume 0.
	source.removeAll(userID, "2024-02-01")
	require.NoError(t, agg.Handle(context.Background(), LogChange{Before: snapshotOf(entry)}))

	require.Equal(t, 0.0, store.volume(t, userID, "2024-02-01"))
	require.Equal(t, 1, store.creates)
}

func TestVolumeLoadPairFailuresAreIsolated(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	before := domain.WorkoutLog{UserID: userID, Weight: 100, Sets: 1, Reps: 10, Date: "2024-04-01"}
	after := before
	after.Date = "2024-04-02"
	source.add(after)
	source.errs[dayKey{userID, "2024-04-01"}] = errors.New("query timeout")

	err := agg.Handle(context.Background(), LogChange{Before: snapshotOf(before), After: snapshotOf(after)})

	// The failing day surfaces an error, but the sibling day still got its
	// recomputation.
	require.ErrorContains(t, err, "query timeout")
	require.Equal(t, 1000.0, store.volume(t, userID, "2024-04-02"))
}

func TestVolumeLoadIgnoresEmptyEvent(t *testing.T) {
	_, store, agg := volumeAggregatorFixture()

	require.NoError(t, agg.Handle(context.Background(), LogChange{}))
	require.Equal(t, 0, store.creates)
	require.Equal(t, 0, store.sets)
}

func TestVolumeLoadMissingFieldsContributeZero(t *testing.T) {
	source, store, agg := volumeAggregatorFixture()
	userID := primitive.NewObjectID()

	complete := domain.WorkoutLog{UserID: userID, Weight: 40, Sets: 5, Reps: 5, Date: "2024-02-02"}
	noReps := domain.WorkoutLog{UserID: userID, Weight: 80, Sets: 3, Date: "2024-02-02"}
	source.add(complete)
	source.add(noReps)

	require.NoError(t, agg.Handle(context.Background(), LogChange{After: snapshotOf(complete)}))

	require.Equal(t, 1000.0, store.volume(t, userID, "2024-02-02"))
}
