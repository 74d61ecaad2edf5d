// internal/aggregator/event.go
package aggregator

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogSnapshot is one side of a workout log change event, decoded straight
// from the change stream document. Weight is a pointer because a snapshot may
// lack the field entirely and the latest-weight gate must tell an absent
// weight apart from a logged weight of 0.
type LogSnapshot struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"userId"`
	BodyPart string             `bson:"bodyPart"`
	Exercise string             `bson:"exercise"`
	Weight   *float64           `bson:"weight"`
	Sets     int                `bson:"sets"`
	Reps     int                `bson:"reps"`
	Date     string             `bson:"date"`
}

// LogChange carries the before/after snapshots of a workout log document for
// one create, update, or delete event. Before is nil on create, After is nil
// on delete. Events may arrive out of order and more than once; handlers must
// stay correct either way.
type LogChange struct {
	Before *LogSnapshot
	After  *LogSnapshot
}

// Handler reacts to one workout log change. Both aggregators implement it;
// the stream processor fans each event out to every registered handler.
type Handler interface {
	Name() string
	Handle(ctx context.Context, change LogChange) error
}
