package repository

import (
	"context"
	"gymlog/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutLogRepository defines the interface for the daily-workouts
// collection. FindByUserAndDate is the read path the volume-load aggregator
// recomputes from; the remaining methods serve the client CRUD API.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutLog, error)
	Update(ctx context.Context, log *domain.WorkoutLog) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// LatestWeightRepository defines the interface for the latest-weight
// collection (one document per user, exercise keys as sub-records).
type LatestWeightRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.LatestWeightRecord, error)
	// ApplyExerciseStats runs apply against the current sub-record for
	// exerciseKey inside a single store transaction and merge-writes the
	// returned stats back under that key only. Returning false from apply
	// ends the transaction without a write. Conflicting concurrent commits
	// are retried by the store, which may invoke apply more than once.
	ApplyExerciseStats(ctx context.Context, userID primitive.ObjectID, exerciseKey string, apply func(current domain.ExerciseStats) (domain.ExerciseStats, bool)) error
}

// VolumeLoadRepository defines the interface for the daily-volume-load
// collection. FindOneByUserAndDate looks up by filter (at most one record is
// expected per pair); the lookup-then-write cycle is intentionally not
// wrapped in a transaction.
type VolumeLoadRepository interface {
	FindOneByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error)
	FindByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyVolumeLoad, error)
	Create(ctx context.Context, record *domain.DailyVolumeLoad) (primitive.ObjectID, error)
	SetVolume(ctx context.Context, id primitive.ObjectID, volumeLoad float64) error
}

// MealRepository defines the interface for the daily-meals collection.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error)
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.Meal, error)
	Update(ctx context.Context, meal *domain.Meal) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// MealOptionRepository defines the interface for the meal-options collection.
type MealOptionRepository interface {
	Create(ctx context.Context, option *domain.MealOption) (primitive.ObjectID, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.MealOption, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// ExerciseOptionRepository defines the interface for the exercises collection
// (per-user movement presets).
type ExerciseOptionRepository interface {
	Create(ctx context.Context, option *domain.ExerciseOption) (primitive.ObjectID, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseOption, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// DailyTargetRepository defines the interface for the daily-target collection.
type DailyTargetRepository interface {
	Create(ctx context.Context, target *domain.DailyTarget) (primitive.ObjectID, error)
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.DailyTarget, error)
	FindByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyTarget, error)
	Update(ctx context.Context, target *domain.DailyTarget) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// BodyInfoRepository defines the interface for the body-info collection.
type BodyInfoRepository interface {
	Create(ctx context.Context, info *domain.BodyInfo) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BodyInfo, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.BodyInfo, error)
	Update(ctx context.Context, info *domain.BodyInfo) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
