package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

type stubReviewStore struct {
	upsertReview *model.Review
	upsertErr    error
}

func (s stubReviewStore) Upsert(context.Context, primitive.ObjectID, primitive.ObjectID, int, string) (*model.Review, error) {
	return s.upsertReview, s.upsertErr
}

func (s stubReviewStore) FindByID(context.Context, primitive.ObjectID) (*model.Review, error) {
	return nil, repository.ErrNotFound
}

func (s stubReviewStore) ListByProperty(context.Context, primitive.ObjectID) ([]model.Review, error) {
	return nil, nil
}

func (s stubReviewStore) ListByUser(context.Context, primitive.ObjectID) ([]model.Review, error) {
	return nil, nil
}

func (s stubReviewStore) Delete(context.Context, primitive.ObjectID) error { return nil }

type stubPropertyFinder struct {
	property *model.Property
	err      error
}

func (s stubPropertyFinder) FindByID(context.Context, primitive.ObjectID) (*model.Property, error) {
	return s.property, s.err
}

func (s stubPropertyFinder) FindManyByID(context.Context, []primitive.ObjectID) ([]model.Property, error) {
	return nil, nil
}

func postReview(t *testing.T, h *ReviewHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	middleware.SetPrincipal(c, &middleware.Principal{
		Account: &model.Account{ID: primitive.NewObjectID()},
		Role:    model.RoleSeeker,
	})
	require.NoError(t, h.Create(c))
	return rec
}

func TestCreateReviewSucceeds(t *testing.T) {
	propID := primitive.NewObjectID()
	h := &ReviewHandler{
		Reviews:    stubReviewStore{upsertReview: &model.Review{Property: propID, Rating: 4}},
		Properties: stubPropertyFinder{property: &model.Property{ID: propID}},
	}

	rec := postReview(t, h, `{"propertyId":"`+propID.Hex()+`","rating":4,"comment":"clean rooms"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestCreateReviewDuplicateRaceIsClientError(t *testing.T) {
	// Two concurrent first reviews race the unique (user, property)
	// index; the loser must get a 400, not a 500.
	propID := primitive.NewObjectID()
	h := &ReviewHandler{
		Reviews:    stubReviewStore{upsertErr: repository.ErrDuplicateReview},
		Properties: stubPropertyFinder{property: &model.Property{ID: propID}},
	}

	rec := postReview(t, h, `{"propertyId":"`+propID.Hex()+`","rating":4,"comment":"ok"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You already reviewed this property")
}

func TestCreateReviewUnknownProperty(t *testing.T) {
	h := &ReviewHandler{
		Reviews:    stubReviewStore{},
		Properties: stubPropertyFinder{err: repository.ErrNotFound},
	}

	rec := postReview(t, h, `{"propertyId":"`+primitive.NewObjectID().Hex()+`","rating":4}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	h := &ReviewHandler{Reviews: stubReviewStore{}, Properties: stubPropertyFinder{}}

	for _, body := range []string{
		`{"propertyId":"x","rating":0}`,
		`{"propertyId":"x","rating":6}`,
		`{"propertyId":"x"}`,
	} {
		rec := postReview(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "Rating must be between 1 and 5")
	}
}
