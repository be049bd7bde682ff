package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhq/stay-rental-api/internal/auth"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// EnsureIndexes creates the indexes the repositories rely on. CreateOne
// is idempotent, so this runs unconditionally at startup.
//
//   - unique email per identity collection
//   - unique (user, property) on inquiries (duplicates rejected) and on
//     reviews (duplicates upserted, index guards concurrent first writes)
//   - 2dsphere on property locations for $geoWithin queries
//   - compound (type, city, price) matching the common filter shape
//   - unique token string on the revocation list, plus a TTL on revokedAt
//     expiring records after the token lifetime — an expired token would
//     be rejected by the expiry check regardless, so pruning is safe
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	for _, coll := range []string{repository.UsersCollection, repository.OwnersCollection} {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		}); err != nil {
			return err
		}
	}

	pair := bson.D{{Key: "user", Value: 1}, {Key: "property", Value: 1}}
	for _, coll := range []string{repository.InquiriesCollection, repository.ReviewsCollection} {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    pair,
			Options: unique,
		}); err != nil {
			return err
		}
	}

	props := db.Collection(repository.PropertiesCollection).Indexes()
	if _, err := props.CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}); err != nil {
		return err
	}
	if _, err := props.CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "city", Value: 1}, {Key: "price", Value: 1}},
	}); err != nil {
		return err
	}

	blacklist := db.Collection(repository.BlacklistCollection).Indexes()
	if _, err := blacklist.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	ttl := int32(auth.TokenTTL.Seconds())
	if _, err := blacklist.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "revokedAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(ttl),
	}); err != nil {
		return err
	}
	return nil
}
