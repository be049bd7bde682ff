package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/queue"
	"github.com/stayhq/stay-rental-api/internal/repository"
	queue_publisher "github.com/stayhq/stay-rental-api/internal/service"
)

const maxInquiryMessageLen = 1000

// InquiryHandler serves inquiry creation, the per-role listings and the
// owner response flow.
type InquiryHandler struct {
	Inquiries  *repository.InquiryRepo
	Properties *repository.PropertyRepo
	Accounts   *repository.Accounts
}

func NewInquiryHandler(i *repository.InquiryRepo, p *repository.PropertyRepo, a *repository.Accounts) *InquiryHandler {
	return &InquiryHandler{Inquiries: i, Properties: p, Accounts: a}
}

type createInquiryReq struct {
	PropertyID string `json:"propertyId"`
	Message    string `json:"message"`
}

// Create handles POST /api/inquiries (seeker only). A second inquiry by
// the same seeker on the same listing is rejected, and the listing's
// inquiry counter is only bumped on an actual create.
func (h *InquiryHandler) Create(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	var req createInquiryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Message is required"})
	}
	if len(msg) > maxInquiryMessageLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Message cannot exceed 1000 characters"})
	}
	propID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}

	ctx := c.Request().Context()
	prop, err := h.Properties.FindByID(ctx, propID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	exists, err := h.Inquiries.Exists(ctx, p.Account.ID, propID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "You already sent an inquiry for this property"})
	}

	inq := &model.Inquiry{
		User:     p.Account.ID,
		Owner:    prop.Owner,
		Property: propID,
		Message:  msg,
	}
	if err := h.Inquiries.Create(ctx, inq); err != nil {
		if errors.Is(err, repository.ErrDuplicateInquiry) {
			// The unique index caught a concurrent duplicate.
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "You already sent an inquiry for this property"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create inquiry"})
	}
	if err := h.Properties.IncrementInquiries(ctx, propID); err != nil {
		c.Logger().Warnf("inquiry counter increment failed for property %s: %v", propID.Hex(), err)
	}

	// Fire the analytics event; a broker outage never fails the request.
	_ = queue_publisher.PublishInquiryCreated(ctx, queue.InquiryCreatedEvent{
		InquiryID:     inq.ID.Hex(),
		UserID:        inq.User.Hex(),
		OwnerID:       inq.Owner.Hex(),
		PropertyID:    inq.Property.Hex(),
		PropertyTitle: prop.Title,
		City:          prop.City,
		CreatedAt:     inq.CreatedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "inquiry": inq})
}

// inquiryView hydrates the id references for listing responses.
type inquiryView struct {
	model.Inquiry
	Property any `json:"property"`
	User     any `json:"user"`
	Owner    any `json:"owner"`
}

type propertySummary struct {
	ID      primitive.ObjectID `json:"_id"`
	Title   string             `json:"title"`
	Type    string             `json:"type"`
	Price   float64            `json:"price"`
	Address string             `json:"address"`
	City    string             `json:"city"`
	Images  []string           `json:"images"`
}

func (h *InquiryHandler) hydrate(ctx context.Context, items []model.Inquiry) ([]inquiryView, error) {
	propIDs := make([]primitive.ObjectID, 0, len(items))
	userIDs := make([]primitive.ObjectID, 0, len(items))
	ownerIDs := make([]primitive.ObjectID, 0, len(items))
	for _, inq := range items {
		propIDs = append(propIDs, inq.Property)
		userIDs = append(userIDs, inq.User)
		ownerIDs = append(ownerIDs, inq.Owner)
	}
	props, err := h.Properties.FindManyByID(ctx, propIDs)
	if err != nil {
		return nil, err
	}
	propByID := make(map[primitive.ObjectID]propertySummary, len(props))
	for _, p := range props {
		propByID[p.ID] = propertySummary{
			ID: p.ID, Title: p.Title, Type: p.Type, Price: p.Price,
			Address: p.Address, City: p.City, Images: p.Images,
		}
	}
	users, err := h.Accounts.Users.FindManyByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	owners, err := h.Accounts.Owners.FindManyByID(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]inquiryView, 0, len(items))
	for _, inq := range items {
		v := inquiryView{Inquiry: inq, Property: inq.Property, User: inq.User, Owner: inq.Owner}
		if p, ok := propByID[inq.Property]; ok {
			v.Property = p
		}
		if u, ok := users[inq.User]; ok {
			v.User = u.Sanitized()
		}
		if o, ok := owners[inq.Owner]; ok {
			v.Owner = o.Sanitized()
		}
		out = append(out, v)
	}
	return out, nil
}

// ListForUser handles GET /api/inquiries/user — the seeker's sent
// inquiries.
func (h *InquiryHandler) ListForUser(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	ctx := c.Request().Context()
	items, err := h.Inquiries.ListByUser(ctx, p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	views, err := h.hydrate(ctx, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "inquiries": views})
}

// ListForOwner handles GET /api/inquiries/owner — the owner's received
// inquiries.
func (h *InquiryHandler) ListForOwner(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	ctx := c.Request().Context()
	items, err := h.Inquiries.ListByOwner(ctx, p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	views, err := h.hydrate(ctx, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "inquiries": views})
}

// Respond handles PUT /api/inquiries/:id/respond (owner only, own
// inquiries).
func (h *InquiryHandler) Respond(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Inquiry not found"})
	}
	ctx := c.Request().Context()
	inq, err := h.Inquiries.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Inquiry not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if inq.Owner != p.Account.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Not authorized"})
	}
	updated, err := h.Inquiries.MarkResponded(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "inquiry": updated})
}
