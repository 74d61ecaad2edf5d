// internal/domain/volume_load.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyVolumeLoad is the derived total training volume for one (user, day)
// pair: the sum of weight x sets x reps across all workout logs for that day.
// It is recomputed in full from source logs on every relevant change and is
// never deleted, even when the last log for the day is removed (the value
// just becomes 0 on the next recomputation that touches the day).
type DailyVolumeLoad struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       string             `bson:"date" json:"date"` // "YYYY-MM-DD"
	VolumeLoad float64            `bson:"volumeLoad" json:"volumeLoad"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
