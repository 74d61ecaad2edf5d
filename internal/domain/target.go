// internal/domain/target.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyTarget holds the user's nutrition and training goals for a single day,
// stored in the daily-target collection.
type DailyTarget struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       string             `bson:"date" json:"date"` // "YYYY-MM-DD"
	Calories   float64            `bson:"calories,omitempty" json:"calories,omitempty"` // kcal goal
	Protein    float64            `bson:"protein,omitempty" json:"protein,omitempty"`   // grams
	Carbs      float64            `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat        float64            `bson:"fat,omitempty" json:"fat,omitempty"`
	VolumeLoad float64            `bson:"volumeLoad,omitempty" json:"volumeLoad,omitempty"` // training volume goal
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
