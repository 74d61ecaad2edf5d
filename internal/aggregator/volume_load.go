// internal/aggregator/volume_load.go
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLogSource is the read path the volume-load aggregator recomputes
// from: all current logs with an exact (userId, date) match.
type WorkoutLogSource interface {
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutLog, error)
}

// VolumeLoadStore is the slice of the daily-volume-load repository the
// aggregator writes to. Lookup is by filter; the lookup-then-write cycle is
// not transactional, recomputation converges any losers on the next pass.
type VolumeLoadStore interface {
	FindOneByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error)
	Create(ctx context.Context, record *domain.DailyVolumeLoad) (primitive.ObjectID, error)
	SetVolume(ctx context.Context, id primitive.ObjectID, volumeLoad float64) error
}

// dayKey identifies one (user, date) recomputation target.
type dayKey struct {
	userID primitive.ObjectID
	date   string
}

// VolumeLoadAggregator keeps daily-volume-load consistent with the workout
// log collection. Every invocation recomputes the affected days in full from
// source logs rather than applying a delta, so replayed or out-of-order
// events always converge on the same value and prior drift self-heals.
type VolumeLoadAggregator struct {
	workoutLogs WorkoutLogSource
	volumeLoads VolumeLoadStore
	logger      *log.Logger
}

// NewVolumeLoadAggregator constructs the aggregator. A nil logger falls back
// to the process default.
func NewVolumeLoadAggregator(workoutLogs WorkoutLogSource, volumeLoads VolumeLoadStore, logger *log.Logger) *VolumeLoadAggregator {
	if logger == nil {
		logger = log.New(log.Writer(), "[volume-load] ", log.LstdFlags)
	}
	return &VolumeLoadAggregator{
		workoutLogs: workoutLogs,
		volumeLoads: volumeLoads,
		logger:      logger,
	}
}

// Name identifies this handler in logs and metrics.
func (a *VolumeLoadAggregator) Name() string { return "volume-load" }

// Handle recomputes every (user, date) pair the change touches: the before
// snapshot's pair (covers deletes and date edits) and the after snapshot's
// pair (covers creates and edits). An edit that moves a log across days
// yields two pairs; both are recomputed. Pairs run in parallel and fail
// independently, so one day's store error never blocks a sibling day.
func (a *VolumeLoadAggregator) Handle(ctx context.Context, change LogChange) error {
	targets := make(map[dayKey]struct{}, 2)
	if before := change.Before; before != nil && before.UserID != primitive.NilObjectID && before.Date != "" {
		targets[dayKey{before.UserID, before.Date}] = struct{}{}
	}
	if after := change.After; after != nil && after.UserID != primitive.NilObjectID && after.Date != "" {
		targets[dayKey{after.UserID, after.Date}] = struct{}{}
	}
	if len(targets) == 0 {
		a.logger.Printf("no (user, date) pairs in event, nothing to recompute")
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for target := range targets {
		wg.Add(1)
		go func(target dayKey) {
			defer wg.Done()
			if err := a.recompute(ctx, target.userID, target.date); err != nil {
				a.logger.Printf("recompute failed for user=%s date=%s: %v", target.userID.Hex(), target.date, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("recompute %s/%s: %w", target.userID.Hex(), target.date, err))
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// recompute re-aggregates one day's volume from all current source logs and
// upserts the daily-volume-load record for that (user, date) pair.
func (a *VolumeLoadAggregator) recompute(ctx context.Context, userID primitive.ObjectID, date string) error {
	logs, err := a.workoutLogs.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return err
	}

	var totalVolume float64
	for i := range logs {
		totalVolume += logs[i].VolumeLoad()
	}

	existing, err := a.volumeLoads.FindOneByUserAndDate(ctx, userID, date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil {
		return a.volumeLoads.SetVolume(ctx, existing.ID, totalVolume)
	}

	// First log for this day: create the record. It will persist even if all
	// logs are later removed (the value just drops to 0 on a future pass).
	_, err = a.volumeLoads.Create(ctx, &domain.DailyVolumeLoad{
		UserID:     userID,
		Date:       date,
		VolumeLoad: totalVolume,
	})
	return err
}
