package service

import (
	"context"
	"errors"
	"gymlog/backend/internal/aggregator"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrLogNotFound      = errors.New("workout log not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
)

// --- Service Interface ---
//
// The write path is a plain pass-through to the daily-workouts collection;
// the derived views react to those writes asynchronously via the change
// stream, so a read immediately after a write may observe stale aggregates.
type WorkoutService interface {
	LogSet(ctx context.Context, userID primitive.ObjectID, bodyPart, exercise string, weight float64, sets, reps int, date, setTime string) (*domain.WorkoutLog, error)
	GetLogsByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutLog, error)
	UpdateLog(ctx context.Context, userID, logID primitive.ObjectID, bodyPart, exercise string, weight float64, sets, reps int, date, setTime string) (*domain.WorkoutLog, error)
	DeleteLog(ctx context.Context, userID, logID primitive.ObjectID) error

	GetLatestWeights(ctx context.Context, userID primitive.ObjectID) (*domain.LatestWeightRecord, error)
	GetVolumeLoad(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error)
	GetVolumeLoadRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyVolumeLoad, error)

	GetExerciseOptions(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseOption, error)
	AddExerciseOption(ctx context.Context, userID primitive.ObjectID, bodyPart, exercise string) (*domain.ExerciseOption, error)
	DeleteExerciseOption(ctx context.Context, userID, optionID primitive.ObjectID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutLogs     repository.WorkoutLogRepository
	latestWeights   repository.LatestWeightRepository
	volumeLoads     repository.VolumeLoadRepository
	exerciseOptions repository.ExerciseOptionRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutLogs repository.WorkoutLogRepository,
	latestWeights repository.LatestWeightRepository,
	volumeLoads repository.VolumeLoadRepository,
	exerciseOptions repository.ExerciseOptionRepository,
) WorkoutService {
	return &workoutService{
		workoutLogs:     workoutLogs,
		latestWeights:   latestWeights,
		volumeLoads:     volumeLoads,
		exerciseOptions: exerciseOptions,
	}
}

// LogSet records one exercise set for the user.
func (s *workoutService) LogSet(ctx context.Context, userID primitive.ObjectID, bodyPart, exercise string, weight float64, sets, reps int, date, setTime string) (*domain.WorkoutLog, error) {
	if userID == primitive.NilObjectID || bodyPart == "" || exercise == "" {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	log := &domain.WorkoutLog{
		UserID:   userID,
		BodyPart: bodyPart,
		Exercise: exercise,
		Weight:   weight,
		Sets:     sets,
		Reps:     reps,
		Date:     date,
		SetTime:  setTime,
	}

	logID, err := s.workoutLogs.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

// GetLogsByDate lists all sets the user logged on one day.
func (s *workoutService) GetLogsByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.WorkoutLog, error) {
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	return s.workoutLogs.FindByUserAndDate(ctx, userID, date)
}

// UpdateLog corrects an existing set (weight/date corrections are the common
// case). Ownership is enforced by the repository filter.
func (s *workoutService) UpdateLog(ctx context.Context, userID, logID primitive.ObjectID, bodyPart, exercise string, weight float64, sets, reps int, date, setTime string) (*domain.WorkoutLog, error) {
	if userID == primitive.NilObjectID || logID == primitive.NilObjectID || bodyPart == "" || exercise == "" {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	log := &domain.WorkoutLog{
		ID:       logID,
		UserID:   userID,
		BodyPart: bodyPart,
		Exercise: exercise,
		Weight:   weight,
		Sets:     sets,
		Reps:     reps,
		Date:     date,
		SetTime:  setTime,
	}

	if err := s.workoutLogs.Update(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return s.workoutLogs.GetByID(ctx, logID)
}

// DeleteLog removes a set.
func (s *workoutService) DeleteLog(ctx context.Context, userID, logID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || logID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	err := s.workoutLogs.Delete(ctx, logID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}

// GetLatestWeights returns the user's latest/previous weight pairs for all
// exercise keys. A user with no processed logs yet has no record; that maps
// to an empty one rather than an error.
func (s *workoutService) GetLatestWeights(ctx context.Context, userID primitive.ObjectID) (*domain.LatestWeightRecord, error) {
	record, err := s.latestWeights.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.LatestWeightRecord{UserID: userID, Exercises: map[string]domain.ExerciseStats{}}, nil
		}
		return nil, err
	}
	if record.Exercises == nil {
		record.Exercises = map[string]domain.ExerciseStats{}
	}
	return record, nil
}

// GetVolumeLoad returns the derived training volume for one day, or nil when
// no record exists yet.
func (s *workoutService) GetVolumeLoad(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyVolumeLoad, error) {
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	record, err := s.volumeLoads.FindOneByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// GetVolumeLoadRange returns derived volumes for a date interval, newest first.
func (s *workoutService) GetVolumeLoadRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyVolumeLoad, error) {
	if !aggregator.ValidDate(startDate) || !aggregator.ValidDate(endDate) {
		return nil, ErrInvalidDate
	}
	return s.volumeLoads.FindByUserAndDateRange(ctx, userID, startDate, endDate)
}

// GetExerciseOptions lists the user's movement presets.
func (s *workoutService) GetExerciseOptions(ctx context.Context, userID primitive.ObjectID) ([]domain.ExerciseOption, error) {
	return s.exerciseOptions.FindByUserID(ctx, userID)
}

// AddExerciseOption saves a new movement preset.
func (s *workoutService) AddExerciseOption(ctx context.Context, userID primitive.ObjectID, bodyPart, exercise string) (*domain.ExerciseOption, error) {
	if userID == primitive.NilObjectID || bodyPart == "" || exercise == "" {
		return nil, ErrValidationFailed
	}
	option := &domain.ExerciseOption{
		UserID:   userID,
		BodyPart: bodyPart,
		Exercise: exercise,
	}
	optionID, err := s.exerciseOptions.Create(ctx, option)
	if err != nil {
		return nil, err
	}
	option.ID = optionID
	return option, nil
}

// DeleteExerciseOption removes a movement preset.
func (s *workoutService) DeleteExerciseOption(ctx context.Context, userID, optionID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || optionID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	return s.exerciseOptions.Delete(ctx, optionID, userID)
}
