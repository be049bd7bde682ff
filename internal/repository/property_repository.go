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

const PropertiesCollection = "properties"

// PropertyRepo persists listings.
type PropertyRepo struct {
	coll *mongo.Collection
}

func NewPropertyRepo(db *mongo.Database) *PropertyRepo {
	return &PropertyRepo{coll: db.Collection(PropertiesCollection)}
}

// Create inserts a listing and backfills the generated id.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// FindByID fetches a single listing.
func (r *PropertyRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error) {
	var p model.Property
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDAndIncrementViews fetches a listing and bumps its view counter
// in one atomic operation. $inc at the store layer means concurrent views
// never undercount.
func (r *PropertyRepo) FindByIDAndIncrementViews(ctx context.Context, id primitive.ObjectID) (*model.Property, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.Property
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"viewsCount": 1}},
		after).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementInquiries atomically bumps the inquiry counter.
func (r *PropertyRepo) IncrementInquiries(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"inquiriesCount": 1}})
	return err
}

// Update applies an allow-listed $set built by the handler and returns
// the updated listing.
func (r *PropertyRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Property, error) {
	set["updatedAt"] = time.Now().UTC()
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.Property
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a listing.
func (r *PropertyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns all listings of an owner, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]model.Property, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeProperties(ctx, cur)
}

// Search runs the public filtered search: count plus page fetch with the
// predicate, sort and skip/limit produced by the query builder.
func (r *PropertyRepo) Search(ctx context.Context, q SearchQuery) ([]model.Property, int64, error) {
	filter := q.Filter()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	_, limit, skip := q.Pagination()
	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSort(q.SortSpec()).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeProperties(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Near runs the geo-radius search, capped and unpaginated.
func (r *PropertyRepo) Near(ctx context.Context, q NearQuery) ([]model.Property, error) {
	cur, err := r.coll.Find(ctx, q.Filter(), options.Find().SetLimit(NearResultCap))
	if err != nil {
		return nil, err
	}
	return decodeProperties(ctx, cur)
}

// FindManyByID fetches listings for the given ids, preserving no
// particular order. Used for wishlist hydration.
func (r *PropertyRepo) FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]model.Property, error) {
	if len(ids) == 0 {
		return []model.Property{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeProperties(ctx, cur)
}

func decodeProperties(ctx context.Context, cur *mongo.Cursor) ([]model.Property, error) {
	defer cur.Close(ctx)
	out := []model.Property{}
	for cur.Next(ctx) {
		var p model.Property
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}
