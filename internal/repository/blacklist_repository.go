package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BlacklistCollection = "blacklist_tokens"

// BlacklistRepo is the token revocation list: logout appends the exact
// bearer token string here and every protected request checks it before
// any signature work. Records age out via a TTL index after the token
// lifetime, when expiry checking would reject the token anyway.
type BlacklistRepo struct {
	coll *mongo.Collection
}

func NewBlacklistRepo(db *mongo.Database) *BlacklistRepo {
	return &BlacklistRepo{coll: db.Collection(BlacklistCollection)}
}

// Record revokes a token. The upsert keyed on the token string makes
// repeated logouts with the same token idempotent.
func (r *BlacklistRepo) Record(ctx context.Context, token string, accountID primitive.ObjectID) error {
	setOnInsert := bson.M{"revokedAt": time.Now().UTC()}
	if !accountID.IsZero() {
		setOnInsert["accountId"] = accountID
	}
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Concurrent logout with the same token; the record exists.
		return nil
	}
	return err
}

// IsRevoked reports whether the exact token string has been revoked.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"token": token}, options.Count().SetLimit(1))
	return n > 0, err
}
