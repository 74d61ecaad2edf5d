// internal/domain/meal.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType distinguishes when during the day a meal was eaten.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Meal is one logged meal in the daily-meals collection.
type Meal struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Date     string             `bson:"date" json:"date"` // "YYYY-MM-DD"
	MealType MealType           `bson:"mealType" json:"mealType"`
	Name     string             `bson:"name" json:"name"`
	Calories float64            `bson:"calories" json:"calories"` // kcal
	Protein  float64            `bson:"protein,omitempty" json:"protein,omitempty"` // grams
	Carbs    float64            `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      float64            `bson:"fat,omitempty" json:"fat,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// MealOption is a reusable meal preset in the meal-options collection,
// typically created from a nutrition lookup so the user can log the same
// food again without searching.
type MealOption struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Name     string             `bson:"name" json:"name"`
	Calories float64            `bson:"calories" json:"calories"`
	Protein  float64            `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs    float64            `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      float64            `bson:"fat,omitempty" json:"fat,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
}
