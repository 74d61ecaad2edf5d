// internal/domain/body_info.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyInfo is one body-progress measurement in the body-info collection.
// An optional progress photo lives in S3; only its object key is stored here.
type BodyInfo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       string             `bson:"date" json:"date"` // "YYYY-MM-DD"
	Height     float64            `bson:"height,omitempty" json:"height,omitempty"`         // cm
	Weight     float64            `bson:"weight,omitempty" json:"weight,omitempty"`         // kg
	BodyFat    float64            `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`       // percent
	MuscleMass float64            `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"` // kg
	// PhotoObjectKey is the key of the progress photo in the S3 bucket.
	// Internal use only; clients get presigned URLs instead.
	PhotoObjectKey string    `bson:"photoObjectKey,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
