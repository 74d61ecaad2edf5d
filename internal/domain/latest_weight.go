// internal/domain/latest_weight.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EpochDate is the default latest_date for an exercise key that has never
// been written. Any real "YYYY-MM-DD" date compares greater than it.
const EpochDate = "1970-01-01"

// ExerciseStats is the rolling latest/previous weight pair for one exercise
// key. PreviousWeight is the weight that held the latest slot immediately
// before the current latest entry was applied (ordered by date, not by
// arrival order).
type ExerciseStats struct {
	LatestWeight   float64 `bson:"latest_weight" json:"latest_weight"`
	LatestDate     string  `bson:"latest_date" json:"latest_date"`
	PreviousWeight float64 `bson:"previous_weight" json:"previous_weight"`
}

// LatestWeightRecord is the per-user document in the latest-weight
// collection, keyed by the user's ID. Each exercise key's sub-record is
// updated independently via merge writes; sibling keys are never disturbed.
type LatestWeightRecord struct {
	UserID    primitive.ObjectID       `bson:"_id" json:"userId"`
	Exercises map[string]ExerciseStats `bson:"exercises" json:"exercises"`
}
