package stream

import (
	"context"
	"errors"
	"gymlog/backend/internal/aggregator"
	"gymlog/backend/internal/domain"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubStream replays a fixed list of raw change documents.
type stubStream struct {
	events  []bson.Raw
	index   int
	current bson.Raw
	err     error
	closed  bool
}

func (s *stubStream) Next(_ context.Context) bool {
	if s.index >= len(s.events) {
		return false
	}
	s.current = s.events[s.index]
	s.index++
	return true
}

func (s *stubStream) Decode(val interface{}) error {
	return bson.Unmarshal(s.current, val)
}

func (s *stubStream) Err() error { return s.err }

func (s *stubStream) Close(_ context.Context) error {
	s.closed = true
	return nil
}

// recordingHandler captures every change it receives.
type recordingHandler struct {
	mu      sync.Mutex
	name    string
	err     error
	changes []aggregator.LogChange
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) Handle(_ context.Context, change aggregator.LogChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, change)
	return h.err
}

func rawEvent(t *testing.T, doc bson.M) bson.Raw {
	t.Helper()
	data, err := bson.Marshal(doc)
	require.NoError(t, err)
	return data
}

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(io.Discard, "", 0)
}

func TestProcessorDispatchesToAllHandlers(t *testing.T) {
	entry := domain.WorkoutLog{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		BodyPart: "Legs",
		Exercise: "Squat",
		Weight:   100,
		Sets:     3,
		Reps:     5,
		Date:     "2024-01-01",
	}
	stream := &stubStream{events: []bson.Raw{
		rawEvent(t, bson.M{"operationType": "insert", "fullDocument": entry}),
	}}
	first := &recordingHandler{name: "latest-weight"}
	second := &recordingHandler{name: "volume-load"}

	processor := NewProcessor(stream, []aggregator.Handler{first, second}, WithLogger(testLogger(t)))
	require.NoError(t, processor.Run(context.Background()))

	require.Len(t, first.changes, 1)
	require.Len(t, second.changes, 1)
	require.Nil(t, first.changes[0].Before)
	require.NotNil(t, first.changes[0].After)
	require.Equal(t, entry.Date, first.changes[0].After.Date)
	require.NotNil(t, first.changes[0].After.Weight)
	require.Equal(t, entry.Weight, *first.changes[0].After.Weight)
	require.True(t, stream.closed)
}

func TestProcessorDeleteEventCarriesBeforeOnly(t *testing.T) {
	entry := domain.WorkoutLog{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Weight: 60,
		Date:   "2024-01-02",
	}
	stream := &stubStream{events: []bson.Raw{
		rawEvent(t, bson.M{"operationType": "delete", "fullDocumentBeforeChange": entry}),
	}}
	handler := &recordingHandler{name: "volume-load"}

	processor := NewProcessor(stream, []aggregator.Handler{handler}, WithLogger(testLogger(t)))
	require.NoError(t, processor.Run(context.Background()))

	require.Len(t, handler.changes, 1)
	require.NotNil(t, handler.changes[0].Before)
	require.Nil(t, handler.changes[0].After)
	require.Equal(t, "2024-01-02", handler.changes[0].Before.Date)
}

func TestProcessorHandlerErrorDoesNotStopLoop(t *testing.T) {
	first := domain.WorkoutLog{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), Date: "2024-01-01"}
	second := domain.WorkoutLog{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), Date: "2024-01-02"}
	stream := &stubStream{events: []bson.Raw{
		rawEvent(t, bson.M{"operationType": "insert", "fullDocument": first}),
		rawEvent(t, bson.M{"operationType": "insert", "fullDocument": second}),
	}}
	handler := &recordingHandler{name: "latest-weight", err: errors.New("boom")}

	processor := NewProcessor(stream, []aggregator.Handler{handler}, WithLogger(testLogger(t)))
	require.NoError(t, processor.Run(context.Background()))

	// Both events reached the handler despite the first one failing.
	require.Len(t, handler.changes, 2)
}

func TestProcessorSurfacesStreamError(t *testing.T) {
	stream := &stubStream{err: errors.New("stream lost")}
	handler := &recordingHandler{name: "latest-weight"}

	processor := NewProcessor(stream, []aggregator.Handler{handler}, WithLogger(testLogger(t)))
	err := processor.Run(context.Background())
	require.ErrorContains(t, err, "stream lost")
	require.Empty(t, handler.changes)
}

func TestProcessorKeepsWeightNilWhenFieldIsMissing(t *testing.T) {
	// A document with no weight field still decodes; the nil pointer lets
	// handlers tell the field apart from a logged weight of 0.
	stream := &stubStream{events: []bson.Raw{
		rawEvent(t, bson.M{"operationType": "insert", "fullDocument": bson.M{
			"userId":   primitive.NewObjectID(),
			"bodyPart": "Legs",
			"exercise": "Squat",
			"date":     "2024-01-05",
		}}),
	}}
	handler := &recordingHandler{name: "latest-weight"}

	processor := NewProcessor(stream, []aggregator.Handler{handler}, WithLogger(testLogger(t)))
	require.NoError(t, processor.Run(context.Background()))

	require.Len(t, handler.changes, 1)
	require.NotNil(t, handler.changes[0].After)
	require.Nil(t, handler.changes[0].After.Weight)
	require.Equal(t, "2024-01-05", handler.changes[0].After.Date)
}

func TestProcessorTreatsUnreadableSnapshotAsAbsent(t *testing.T) {
	// fullDocument present but not a workout log shape the decoder accepts:
	// weight as a string fails the numeric field.
	stream := &stubStream{events: []bson.Raw{
		rawEvent(t, bson.M{"operationType": "insert", "fullDocument": bson.M{
			"userId": primitive.NewObjectID(),
			"weight": "a lot",
			"date":   "2024-01-01",
		}}),
	}}
	handler := &recordingHandler{name: "latest-weight"}

	processor := NewProcessor(stream, []aggregator.Handler{handler}, WithLogger(testLogger(t)))
	require.NoError(t, processor.Run(context.Background()))

	require.Len(t, handler.changes, 1)
	require.Nil(t, handler.changes[0].After)
	require.Nil(t, handler.changes[0].Before)
}
