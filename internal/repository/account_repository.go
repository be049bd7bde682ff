package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhq/stay-rental-api/internal/model"
)

// Collection names for the two identity kinds.
const (
	UsersCollection  = "users"
	OwnersCollection = "owners"
)

// AccountRepo persists identity records for a single role's collection.
// Seekers and owners are structurally identical but live in disjoint
// collections, so each role gets its own repo instance.
type AccountRepo struct {
	coll *mongo.Collection
	role model.Role
}

func NewUserRepo(db *mongo.Database) *AccountRepo {
	return &AccountRepo{coll: db.Collection(UsersCollection), role: model.RoleSeeker}
}

func NewOwnerRepo(db *mongo.Database) *AccountRepo {
	return &AccountRepo{coll: db.Collection(OwnersCollection), role: model.RoleOwner}
}

// Accounts bundles both identity repositories so the middleware and the
// federated adapter can pick a collection by role without stringly-typed
// branching.
type Accounts struct {
	Users  *AccountRepo
	Owners *AccountRepo
}

func NewAccounts(db *mongo.Database) *Accounts {
	return &Accounts{Users: NewUserRepo(db), Owners: NewOwnerRepo(db)}
}

// ForRole returns the repository matching the role claim. There is no
// fallback: a seeker token only ever resolves against the users
// collection and vice versa.
func (a *Accounts) ForRole(r model.Role) *AccountRepo {
	if r == model.RoleOwner {
		return a.Owners
	}
	return a.Users
}

// sanitized projects out the password hash so resolved identities can be
// attached to requests and serialized without ever exposing the secret.
var sanitized = options.FindOne().SetProjection(bson.M{"password": 0})

// Create inserts the account, normalizing the email to lowercase. The
// unique email index turns concurrent duplicates into ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// FindByEmail fetches an account by normalized email, password hash
// included — this is the login path, which needs the hash for comparison.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID fetches an account with the password hash projected out.
func (r *AccountRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, sanitized).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AttachGoogleID links a federated subject id to an existing account.
// Only accounts without a googleId are updated, so the link is one-time.
func (r *AccountRepo) AttachGoogleID(ctx context.Context, id primitive.ObjectID, googleID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "googleId": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"googleId": googleID, "updatedAt": time.Now().UTC()}})
	return err
}

// UpdateProfile sets the mutable profile fields and returns the updated
// account, sanitized.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, contactNumber string) (*model.Account, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if name != "" {
		set["name"] = name
	}
	if contactNumber != "" {
		set["contactNumber"] = contactNumber
	}
	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})
	var a model.Account
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveProperty appends a property to the seeker's wishlist. $addToSet
// keeps the operation atomic; a zero modified count means it was already
// there.
func (r *AccountRepo) SaveProperty(ctx context.Context, accountID, propertyID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": accountID},
		bson.M{"$addToSet": bson.M{"savedProperties": propertyID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrAlreadySaved
	}
	return nil
}

// UnsaveProperty removes a property from the wishlist. Removing an
// absent entry is a no-op, matching the forgiving semantics of the API.
func (r *AccountRepo) UnsaveProperty(ctx context.Context, accountID, propertyID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": accountID},
		bson.M{"$pull": bson.M{"savedProperties": propertyID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SavedPropertyIDs returns the seeker's wishlist ids in saved order.
func (r *AccountRepo) SavedPropertyIDs(ctx context.Context, accountID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var a model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": accountID},
		options.FindOne().SetProjection(bson.M{"savedProperties": 1})).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a.SavedProperties, nil
}

// FindManyByID fetches sanitized accounts for the given ids, keyed by id.
// Used to hydrate owner/user references on inquiry and review listings.
func (r *AccountRepo) FindManyByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Account, error) {
	out := make(map[primitive.ObjectID]*model.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var a model.Account
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out[a.ID] = &a
	}
	return out, cur.Err()
}
