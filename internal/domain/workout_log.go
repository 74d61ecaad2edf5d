// internal/domain/workout_log.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog is the raw record of a single logged exercise set. It is the
// source of truth for both derived collections (latest-weight and
// daily-volume-load); the aggregators only observe changes to it.
type WorkoutLog struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	BodyPart string             `bson:"bodyPart" json:"bodyPart"` // e.g., "Legs", "Chest"
	Exercise string             `bson:"exercise" json:"exercise"` // e.g., "Back Squat"
	Weight   float64            `bson:"weight" json:"weight"`     // Load used for the set
	Sets     int                `bson:"sets" json:"sets"`
	Reps     int                `bson:"reps" json:"reps"`
	// Date is the calendar day the set was performed, in "YYYY-MM-DD" form.
	// Lexicographic comparison of this format equals chronological comparison,
	// which the latest-weight aggregator relies on.
	Date      string    `bson:"date" json:"date"`
	SetTime   string    `bson:"setTime,omitempty" json:"setTime,omitempty"` // "HH:MM:SS", optional
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// VolumeLoad returns this entry's contribution to the daily training volume.
// Zero values stand in for missing fields, so an incomplete log contributes 0.
func (w *WorkoutLog) VolumeLoad() float64 {
	return w.Weight * float64(w.Sets) * float64(w.Reps)
}
