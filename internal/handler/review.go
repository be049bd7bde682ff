package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

const maxReviewCommentLen = 500

// reviewStore is the persistence surface the review handler needs.
type reviewStore interface {
	Upsert(ctx context.Context, userID, propertyID primitive.ObjectID, rating int, comment string) (*model.Review, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]model.Review, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// propertyFinder is the slice of the property repository reviews touch:
// existence checks and hydration lookups.
type propertyFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error)
	FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]model.Property, error)
}

// ReviewHandler serves review submission, per-property listings with the
// aggregate rating, the seeker's own reviews, and deletion.
type ReviewHandler struct {
	Reviews    reviewStore
	Properties propertyFinder
	Accounts   *repository.Accounts
}

func NewReviewHandler(r *repository.ReviewRepo, p *repository.PropertyRepo, a *repository.Accounts) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Properties: p, Accounts: a}
}

type createReviewReq struct {
	PropertyID string `json:"propertyId"`
	Rating     *int   `json:"rating"`
	Comment    string `json:"comment"`
}

// Create handles POST /api/reviews (seeker only). Unlike inquiries, a
// repeat submission updates the existing review in place rather than
// being rejected.
func (h *ReviewHandler) Create(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Rating must be between 1 and 5"})
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > maxReviewCommentLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Comment cannot exceed 500 characters"})
	}
	propID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}

	ctx := c.Request().Context()
	if _, err := h.Properties.FindByID(ctx, propID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	rev, err := h.Reviews.Upsert(ctx, p.Account.ID, propID, *req.Rating, comment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			// A concurrent first review raced the unique index.
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "You already reviewed this property"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not save review"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "review": rev})
}

type reviewView struct {
	model.Review
	User any `json:"user"`
}

// ListByProperty handles GET /api/reviews/property/:id (public). The
// response carries the review list plus the average rating rounded to
// one decimal.
func (h *ReviewHandler) ListByProperty(c echo.Context) error {
	propID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	ctx := c.Request().Context()
	items, err := h.Reviews.ListByProperty(ctx, propID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	userIDs := make([]primitive.ObjectID, 0, len(items))
	sum := 0
	for _, rev := range items {
		userIDs = append(userIDs, rev.User)
		sum += rev.Rating
	}
	users, err := h.Accounts.Users.FindManyByID(ctx, userIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	views := make([]reviewView, 0, len(items))
	for _, rev := range items {
		v := reviewView{Review: rev, User: rev.User}
		if u, ok := users[rev.User]; ok {
			v.User = u.Sanitized()
		}
		views = append(views, v)
	}

	avg := 0.0
	if len(items) > 0 {
		avg = math.Round(float64(sum)/float64(len(items))*10) / 10
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"reviews":       views,
		"averageRating": avg,
		"total":         len(items),
	})
}

// ListMine handles GET /api/reviews/user — the seeker's own reviews,
// with the reviewed listing hydrated.
func (h *ReviewHandler) ListMine(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	ctx := c.Request().Context()
	items, err := h.Reviews.ListByUser(ctx, p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	propIDs := make([]primitive.ObjectID, 0, len(items))
	for _, rev := range items {
		propIDs = append(propIDs, rev.Property)
	}
	props, err := h.Properties.FindManyByID(ctx, propIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	propByID := make(map[primitive.ObjectID]propertySummary, len(props))
	for _, prop := range props {
		propByID[prop.ID] = propertySummary{
			ID: prop.ID, Title: prop.Title, Type: prop.Type, Price: prop.Price,
			Address: prop.Address, City: prop.City, Images: prop.Images,
		}
	}

	type mineView struct {
		model.Review
		Property any `json:"property"`
	}
	views := make([]mineView, 0, len(items))
	for _, rev := range items {
		v := mineView{Review: rev, Property: rev.Property}
		if prop, ok := propByID[rev.Property]; ok {
			v.Property = prop
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reviews": views})
}

// Delete handles DELETE /api/reviews/:id — a seeker may only remove
// their own review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Review not found"})
	}
	ctx := c.Request().Context()
	rev, err := h.Reviews.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Review not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if rev.User != p.Account.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Not authorized"})
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Review deleted"})
}
