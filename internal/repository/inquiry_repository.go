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

const InquiriesCollection = "inquiries"

// InquiryRepo persists seeker-to-owner inquiries. The collection carries
// a unique (user, property) index, so duplicates are rejected even under
// concurrent creates.
type InquiryRepo struct {
	coll *mongo.Collection
}

func NewInquiryRepo(db *mongo.Database) *InquiryRepo {
	return &InquiryRepo{coll: db.Collection(InquiriesCollection)}
}

// Create inserts a pending inquiry. A duplicate (user, property) pair —
// whether found by the pre-check in the handler or raced into the unique
// index — comes back as ErrDuplicateInquiry.
func (r *InquiryRepo) Create(ctx context.Context, inq *model.Inquiry) error {
	now := time.Now().UTC()
	inq.Status = model.InquiryPending
	inq.CreatedAt = now
	inq.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, inq)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateInquiry
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		inq.ID = id
	}
	return nil
}

// Exists reports whether the seeker already inquired about the property.
func (r *InquiryRepo) Exists(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user": userID, "property": propertyID}, options.Count().SetLimit(1))
	return n > 0, err
}

// FindByID fetches a single inquiry.
func (r *InquiryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Inquiry, error) {
	var inq model.Inquiry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inq, nil
}

// ListByUser returns a seeker's sent inquiries, newest first.
func (r *InquiryRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Inquiry, error) {
	return r.list(ctx, bson.M{"user": userID})
}

// ListByOwner returns an owner's received inquiries, newest first.
func (r *InquiryRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]model.Inquiry, error) {
	return r.list(ctx, bson.M{"owner": ownerID})
}

func (r *InquiryRepo) list(ctx context.Context, filter bson.M) ([]model.Inquiry, error) {
	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []model.Inquiry{}
	for cur.Next(ctx) {
		var inq model.Inquiry
		if err := cur.Decode(&inq); err != nil {
			return nil, err
		}
		out = append(out, inq)
	}
	return out, cur.Err()
}

// MarkResponded flips the status to responded and returns the updated
// inquiry.
func (r *InquiryRepo) MarkResponded(ctx context.Context, id primitive.ObjectID) (*model.Inquiry, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inq model.Inquiry
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": model.InquiryResponded, "updatedAt": time.Now().UTC()}},
		after).Decode(&inq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inq, nil
}
