package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevokedToken records the exact bearer token string invalidated by a
// logout. Rows are never updated; a TTL index on RevokedAt expires them
// once the token would have aged out anyway (30 days, the token lifetime).
type RevokedToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Token     string             `bson:"token" json:"token"`
	AccountID primitive.ObjectID `bson:"accountId,omitempty" json:"accountId,omitempty"`
	RevokedAt time.Time          `bson:"revokedAt" json:"revokedAt"`
}
