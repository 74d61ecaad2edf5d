// Package stream turns the MongoDB change stream on the daily-workouts
// collection into before/after events for the aggregators. The stream is the
// change-data-capture feed: delivery is at-least-once and may be out of
// order, which both aggregators are built to tolerate.
package stream

import (
	"context"
	"gymlog/backend/internal/aggregator"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeStream exposes the minimal *mongo.ChangeStream surface the processor
// needs, so tests can feed events from a stub.
type ChangeStream interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// OpenWorkoutLogStream opens a change stream on daily-workouts with full
// document lookups on both sides of each event. Pre-images must be enabled on
// the collection for the before snapshot to be available on updates/deletes.
func OpenWorkoutLogStream(ctx context.Context, db *mongo.Database) (*mongo.ChangeStream, error) {
	streamOptions := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)
	return db.Collection("daily-workouts").Watch(ctx, mongo.Pipeline{}, streamOptions)
}

// changeEvent is the raw change stream document shape we care about.
type changeEvent struct {
	OperationType            string   `bson:"operationType"`
	FullDocument             bson.Raw `bson:"fullDocument"`
	FullDocumentBeforeChange bson.Raw `bson:"fullDocumentBeforeChange"`
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls change events from the stream, decodes the before/after
// snapshots, and dispatches each event to every registered handler. The two
// aggregators run concurrently per event and do not communicate; each must be
// independently correct. Handler errors are logged and counted, never fatal
// to the loop (redelivery plus idempotent recomputation covers them).
type Processor struct {
	stream   ChangeStream
	handlers []aggregator.Handler
	logger   *log.Logger
}

// NewProcessor constructs a Processor over the given stream and handlers.
func NewProcessor(stream ChangeStream, handlers []aggregator.Handler, opts ...Option) *Processor {
	p := &Processor{
		stream:   stream,
		handlers: handlers,
		logger:   log.New(log.Writer(), "[stream] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes change events until the context
// is cancelled or the stream fails.
func (p *Processor) Run(ctx context.Context) error {
	defer func() {
		if err := p.stream.Close(context.Background()); err != nil {
			p.logger.Printf("close error: %v", err)
		}
	}()

	for p.stream.Next(ctx) {
		var event changeEvent
		if err := p.stream.Decode(&event); err != nil {
			p.logger.Printf("decode error: %v", err)
			recordDecodeError()
			continue
		}
		change := p.logChange(event)
		p.dispatch(ctx, event.OperationType, change)
	}
	return p.stream.Err()
}

// logChange converts the raw snapshots into a typed LogChange. A snapshot
// that is present but undecodable counts as absent (no readable data), which
// the aggregators treat as a skip.
func (p *Processor) logChange(event changeEvent) aggregator.LogChange {
	var change aggregator.LogChange
	if len(event.FullDocumentBeforeChange) > 0 {
		var before aggregator.LogSnapshot
		if err := bson.Unmarshal(event.FullDocumentBeforeChange, &before); err != nil {
			p.logger.Printf("unreadable before snapshot (op=%s): %v", event.OperationType, err)
			recordDecodeError()
		} else {
			change.Before = &before
		}
	}
	if len(event.FullDocument) > 0 {
		var after aggregator.LogSnapshot
		if err := bson.Unmarshal(event.FullDocument, &after); err != nil {
			p.logger.Printf("unreadable after snapshot (op=%s): %v", event.OperationType, err)
			recordDecodeError()
		} else {
			change.After = &after
		}
	}
	return change
}

// dispatch fans one event out to all handlers concurrently and waits for all
// of them before moving to the next event.
func (p *Processor) dispatch(ctx context.Context, operation string, change aggregator.LogChange) {
	var wg sync.WaitGroup
	for _, handler := range p.handlers {
		wg.Add(1)
		go func(handler aggregator.Handler) {
			defer wg.Done()
			if err := handler.Handle(ctx, change); err != nil {
				p.logger.Printf("handler error (handler=%s, op=%s): %v", handler.Name(), operation, err)
				recordHandlerError(handler.Name(), operation)
				return
			}
			recordProcessed(handler.Name(), operation)
		}(handler)
	}
	wg.Wait()
}
