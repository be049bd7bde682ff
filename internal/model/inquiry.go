package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry statuses. An inquiry starts pending and an owner response flips
// it to responded; there is no further lifecycle.
const (
	InquiryPending   = "pending"
	InquiryResponded = "responded"
)

// Inquiry is a seeker's message to a property owner. A (user, property)
// pair is unique: a second inquiry on the same listing is rejected.
type Inquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
