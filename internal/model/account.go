package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is an identity record. Seekers live in the `users` collection
// and owners in the `owners` collection; the two are structurally
// identical but never resolved against each other.
//
// Password holds the bcrypt hash and is excluded from JSON output; the
// repository additionally projects it out on every read that feeds a
// response, so it cannot leak downstream.
type Account struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	ContactNumber string             `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	// GoogleID is the provider subject claim, attached on first Google
	// login and never changed afterwards.
	GoogleID string `bson:"googleId,omitempty" json:"googleId,omitempty"`
	// SavedProperties is the seeker's wishlist; unused for owners.
	SavedProperties []primitive.ObjectID `bson:"savedProperties,omitempty" json:"savedProperties,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Sanitized returns the subset of the account that is safe to embed in
// API responses.
func (a *Account) Sanitized() map[string]any {
	return map[string]any{
		"_id":           a.ID,
		"name":          a.Name,
		"email":         a.Email,
		"contactNumber": a.ContactNumber,
	}
}
