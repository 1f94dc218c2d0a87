package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in the users collection.
// Password and reset-token fields are never exposed in JSON responses.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"` // Unique, stored lowercased and trimmed
	Role                 Role               `bson:"role" json:"role"`
	Photo                string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Active               bool               `bson:"active" json:"-"` // Soft-delete marker, defaults true
	PasswordHash         string             `bson:"password" json:"-"`
	PasswordChangedAt    time.Time          `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty" json:"-"` // SHA-256 hex of the reset token
	PasswordResetExpires time.Time          `bson:"passwordResetExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updated_at"`
}
