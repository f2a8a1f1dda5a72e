package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by swap lifecycle events.
const (
	NotificationSwapReceived  = "swap_request_received"
	NotificationSwapAccepted  = "swap_request_accepted"
	NotificationSwapRejected  = "swap_request_rejected"
	NotificationSwapCompleted = "swap_completed"
	NotificationFeedback      = "feedback_received"
	NotificationSwapUpcoming  = "swap_upcoming"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Read      bool                `bson:"read" json:"read"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"` // Optional reference to a swap request or feedback
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time           `bson:"expires_at" json:"expires_at"` // For auto-deletion after 7 days
}
