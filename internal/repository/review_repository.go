package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhq/stay-rental-api/internal/model"
)

const ReviewsCollection = "reviews"

// ReviewRepo persists property reviews, one per (user, property) pair.
type ReviewRepo struct {
	coll *mongo.Collection
}

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{coll: db.Collection(ReviewsCollection)}
}

// Upsert creates the seeker's review of a property or updates rating and
// comment in place when one already exists. This asymmetry with
// inquiries (which reject duplicates) is deliberate product behavior.
func (r *ReviewRepo) Upsert(ctx context.Context, userID, propertyID primitive.ObjectID, rating int, comment string) (*model.Review, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var rev model.Review
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": userID, "property": propertyID},
		bson.M{
			"$set":         bson.M{"rating": rating, "comment": comment, "updatedAt": now},
			"$setOnInsert": bson.M{"user": userID, "property": propertyID, "createdAt": now},
		},
		opts).Decode(&rev)
	if err != nil {
		// Two concurrent first reviews can race the unique index; one of
		// them surfaces here as a duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return &rev, nil
}

// FindByID fetches a single review.
func (r *ReviewRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	var rev model.Review
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListByProperty returns all reviews of a property, newest first.
func (r *ReviewRepo) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]model.Review, error) {
	return r.list(ctx, bson.M{"property": propertyID})
}

// ListByUser returns all reviews written by a seeker, newest first.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Review, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *ReviewRepo) list(ctx context.Context, filter bson.M) ([]model.Review, error) {
	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Review{}
	for cur.Next(ctx) {
		var rev model.Review
		if err := cur.Decode(&rev); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, cur.Err()
}

// Delete removes a review.
func (r *ReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
