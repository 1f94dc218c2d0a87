package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a review document in the reviews collection.
// A user may leave at most one review per tour.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Review    string             `bson:"review" json:"review"`
	Rating    float64            `bson:"rating" json:"rating"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
