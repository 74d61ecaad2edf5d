// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseOption is a per-user movement preset in the exercises collection.
// The workout log form offers these instead of free-typing bodyPart/exercise
// every time, but the pair remains free text on the log itself.
type ExerciseOption struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	BodyPart  string             `bson:"bodyPart" json:"bodyPart"` // e.g., "Legs", "Back"
	Exercise  string             `bson:"exercise" json:"exercise"` // e.g., "Back Squat"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
