package service

import (
	"context"
	"errors"
	"gymlog/backend/internal/aggregator"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMealNotFound   = errors.New("meal not found")
	ErrTargetNotFound = errors.New("daily target not found")
)

// MealService covers the nutrition side of the tracker: daily meals, reusable
// meal presets, and daily calorie/macro targets.
type MealService interface {
	LogMeal(ctx context.Context, userID primitive.ObjectID, date string, mealType domain.MealType, name string, calories, protein, carbs, fat float64) (*domain.Meal, error)
	GetMealsByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.Meal, error)
	UpdateMeal(ctx context.Context, userID, mealID primitive.ObjectID, date string, mealType domain.MealType, name string, calories, protein, carbs, fat float64) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID primitive.ObjectID) error

	GetMealOptions(ctx context.Context, userID primitive.ObjectID) ([]domain.MealOption, error)
	AddMealOption(ctx context.Context, userID primitive.ObjectID, name string, calories, protein, carbs, fat float64) (*domain.MealOption, error)
	DeleteMealOption(ctx context.Context, userID, optionID primitive.ObjectID) error

	SetDailyTarget(ctx context.Context, userID primitive.ObjectID, date string, calories, protein, carbs, fat, volumeLoad float64) (*domain.DailyTarget, error)
	GetDailyTargets(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.DailyTarget, error)
	GetDailyTargetRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyTarget, error)
	DeleteDailyTarget(ctx context.Context, userID, targetID primitive.ObjectID) error
}

type mealService struct {
	meals       repository.MealRepository
	mealOptions repository.MealOptionRepository
	targets     repository.DailyTargetRepository
}

// NewMealService creates a new instance of mealService.
func NewMealService(meals repository.MealRepository, mealOptions repository.MealOptionRepository, targets repository.DailyTargetRepository) MealService {
	return &mealService{
		meals:       meals,
		mealOptions: mealOptions,
		targets:     targets,
	}
}

// LogMeal records one meal for the user.
func (s *mealService) LogMeal(ctx context.Context, userID primitive.ObjectID, date string, mealType domain.MealType, name string, calories, protein, carbs, fat float64) (*domain.Meal, error) {
	if userID == primitive.NilObjectID || name == "" {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	meal := &domain.Meal{
		UserID:   userID,
		Date:     date,
		MealType: mealType,
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
	mealID, err := s.meals.Create(ctx, meal)
	if err != nil {
		return nil, err
	}
	meal.ID = mealID
	return meal, nil
}

// GetMealsByDate lists the user's meals for one day.
func (s *mealService) GetMealsByDate(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.Meal, error) {
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	return s.meals.FindByUserAndDate(ctx, userID, date)
}

// UpdateMeal corrects an existing meal entry.
func (s *mealService) UpdateMeal(ctx context.Context, userID, mealID primitive.ObjectID, date string, mealType domain.MealType, name string, calories, protein, carbs, fat float64) (*domain.Meal, error) {
	if userID == primitive.NilObjectID || mealID == primitive.NilObjectID || name == "" {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	meal := &domain.Meal{
		ID:       mealID,
		UserID:   userID,
		Date:     date,
		MealType: mealType,
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
	if err := s.meals.Update(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return s.meals.GetByID(ctx, mealID)
}

// DeleteMeal removes a meal entry.
func (s *mealService) DeleteMeal(ctx context.Context, userID, mealID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || mealID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	err := s.meals.Delete(ctx, mealID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealNotFound
	}
	return err
}

// GetMealOptions lists the user's meal presets.
func (s *mealService) GetMealOptions(ctx context.Context, userID primitive.ObjectID) ([]domain.MealOption, error) {
	return s.mealOptions.FindByUserID(ctx, userID)
}

// AddMealOption saves a reusable meal preset, typically from a nutrition
// lookup result.
func (s *mealService) AddMealOption(ctx context.Context, userID primitive.ObjectID, name string, calories, protein, carbs, fat float64) (*domain.MealOption, error) {
	if userID == primitive.NilObjectID || name == "" {
		return nil, ErrValidationFailed
	}
	option := &domain.MealOption{
		UserID:   userID,
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
	optionID, err := s.mealOptions.Create(ctx, option)
	if err != nil {
		return nil, err
	}
	option.ID = optionID
	return option, nil
}

// DeleteMealOption removes a meal preset.
func (s *mealService) DeleteMealOption(ctx context.Context, userID, optionID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || optionID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	return s.mealOptions.Delete(ctx, optionID, userID)
}

// SetDailyTarget records the user's goals for one day.
func (s *mealService) SetDailyTarget(ctx context.Context, userID primitive.ObjectID, date string, calories, protein, carbs, fat, volumeLoad float64) (*domain.DailyTarget, error) {
	if userID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	target := &domain.DailyTarget{
		UserID:     userID,
		Date:       date,
		Calories:   calories,
		Protein:    protein,
		Carbs:      carbs,
		Fat:        fat,
		VolumeLoad: volumeLoad,
	}
	targetID, err := s.targets.Create(ctx, target)
	if err != nil {
		return nil, err
	}
	target.ID = targetID
	return target, nil
}

// GetDailyTargets returns the targets set for one day.
func (s *mealService) GetDailyTargets(ctx context.Context, userID primitive.ObjectID, date string) ([]domain.DailyTarget, error) {
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	return s.targets.FindByUserAndDate(ctx, userID, date)
}

// GetDailyTargetRange returns targets for a date interval, newest first.
func (s *mealService) GetDailyTargetRange(ctx context.Context, userID primitive.ObjectID, startDate, endDate string) ([]domain.DailyTarget, error) {
	if !aggregator.ValidDate(startDate) || !aggregator.ValidDate(endDate) {
		return nil, ErrInvalidDate
	}
	return s.targets.FindByUserAndDateRange(ctx, userID, startDate, endDate)
}

// DeleteDailyTarget removes a target.
func (s *mealService) DeleteDailyTarget(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || targetID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	err := s.targets.Delete(ctx, targetID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTargetNotFound
	}
	return err
}
