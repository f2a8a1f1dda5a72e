package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating holds a user's aggregate feedback score. Average is the arithmetic
// mean of every feedback rating the user has received; Count is the number of
// feedback records backing it.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// User represents an account in the skill-swap marketplace.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	VerifyToken    string             `bson:"verify_token,omitempty" json:"-"`
	SkillsOffered  []string           `bson:"skills_offered" json:"skills_offered"`
	SkillsWanted   []string           `bson:"skills_wanted" json:"skills_wanted"`
	Availability   string             `bson:"availability,omitempty" json:"availability,omitempty"`
	Rating         Rating             `bson:"rating" json:"rating"`
	LastActiveAt   time.Time          `bson:"last_active_at,omitempty" json:"last_active_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the profile slice embedded into swap request responses.
type PublicUser struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	SkillsOffered []string           `json:"skills_offered"`
	SkillsWanted  []string           `json:"skills_wanted"`
}

// Public trims a user down to the fields exposed to other users.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		SkillsOffered: u.SkillsOffered,
		SkillsWanted:  u.SkillsWanted,
	}
}
