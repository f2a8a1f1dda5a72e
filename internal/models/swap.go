package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Swap request lifecycle statuses. A request starts as pending, the recipient
// moves it to accepted or rejected, and an accepted request can be marked
// completed by either party. Rejected and completed are terminal.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCompleted = "completed"
)

// SwapRequest is one user's offer to trade a skill with another.
type SwapRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID     primitive.ObjectID `bson:"requester" json:"requester"`
	RecipientID     primitive.ObjectID `bson:"recipient" json:"recipient"`
	SkillOffered    string             `bson:"skill_offered" json:"skill_offered"`
	SkillRequested  string             `bson:"skill_requested" json:"skill_requested"`
	Message         string             `bson:"message,omitempty" json:"message,omitempty"`
	ScheduledDate   time.Time          `bson:"scheduled_date,omitempty" json:"scheduled_date,omitempty"`
	Status          string             `bson:"status" json:"status"`
	RejectedAt      *time.Time         `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	RejectionReason string             `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// CounterpartyOf returns the other party of the swap relative to userID.
// A caller who is not a party of the swap gets the requester back.
func (s *SwapRequest) CounterpartyOf(userID primitive.ObjectID) primitive.ObjectID {
	if s.RequesterID == userID {
		return s.RecipientID
	}
	return s.RequesterID
}

// IsParty reports whether userID is the requester or the recipient.
func (s *SwapRequest) IsParty(userID primitive.ObjectID) bool {
	return s.RequesterID == userID || s.RecipientID == userID
}

// PopulatedSwapRequest is a swap request with both parties expanded to their
// public profiles, the shape returned by the swap endpoints.
type PopulatedSwapRequest struct {
	ID              primitive.ObjectID `json:"id"`
	Requester       PublicUser         `json:"requester"`
	Recipient       PublicUser         `json:"recipient"`
	SkillOffered    string             `json:"skill_offered"`
	SkillRequested  string             `json:"skill_requested"`
	Message         string             `json:"message,omitempty"`
	ScheduledDate   time.Time          `json:"scheduled_date,omitempty"`
	Status          string             `json:"status"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// SwapRequestFilter narrows a swap request listing. Type is "sent",
// "received" or "all"; an empty Status matches every status.
type SwapRequestFilter struct {
	UserID primitive.ObjectID
	Type   string
	Status string
	Page   int64
	Limit  int64
}

// SwapRequestPage is one page of swap requests plus pagination metadata.
type SwapRequestPage struct {
	SwapRequests []PopulatedSwapRequest `json:"swapRequests"`
	TotalPages   int64                  `json:"totalPages"`
	CurrentPage  int64                  `json:"currentPage"`
	Total        int64                  `json:"total"`
}
