package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a post-completion review left by one party of a swap about the
// other. At most one feedback exists per (swap request, reviewer) pair and it
// is immutable once written.
type Feedback struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SwapRequestID primitive.ObjectID `bson:"swap_request" json:"swap_request"`
	ReviewerID    primitive.ObjectID `bson:"reviewer" json:"reviewer"`
	RevieweeID    primitive.ObjectID `bson:"reviewee" json:"reviewee"`
	Rating        int                `bson:"rating" json:"rating"`
	Comment       string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
