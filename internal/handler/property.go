package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 2000
)

// PropertyHandler serves listing CRUD and the public search paths.
type PropertyHandler struct {
	Properties *repository.PropertyRepo
	Accounts   *repository.Accounts
}

func NewPropertyHandler(p *repository.PropertyRepo, a *repository.Accounts) *PropertyHandler {
	return &PropertyHandler{Properties: p, Accounts: a}
}

// propertyView replaces the owner id with the owner's public profile in
// responses, the way list endpoints present listings.
type propertyView struct {
	model.Property
	Owner any `json:"owner"`
}

// withOwners hydrates the owner reference on each listing with the
// owner's sanitized profile.
func (h *PropertyHandler) withOwners(ctx context.Context, props []model.Property) ([]propertyView, error) {
	ids := make([]primitive.ObjectID, 0, len(props))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range props {
		if !seen[p.Owner] {
			seen[p.Owner] = true
			ids = append(ids, p.Owner)
		}
	}
	owners, err := h.Accounts.Owners.FindManyByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]propertyView, 0, len(props))
	for _, p := range props {
		v := propertyView{Property: p, Owner: p.Owner}
		if o, ok := owners[p.Owner]; ok {
			v.Owner = o.Sanitized()
		}
		out = append(out, v)
	}
	return out, nil
}

type propertyReq struct {
	Title         *string         `json:"title"`
	Type          *string         `json:"type"`
	Price         *float64        `json:"price"`
	Deposit       *float64        `json:"deposit"`
	Gender        *string         `json:"gender"`
	Amenities     *[]string       `json:"amenities"`
	Images        *[]string       `json:"images"`
	Location      *model.GeoPoint `json:"location"`
	Address       *string         `json:"address"`
	City          *string         `json:"city"`
	Description   *string         `json:"description"`
	Available     *bool           `json:"available"`
	ContactNumber *string         `json:"contactNumber"`
	GoogleMapLink *string         `json:"googleMapLink"`
}

// validate checks whichever fields are present against the listing
// schema limits.
func (r propertyReq) validate() string {
	if r.Title != nil && len(strings.TrimSpace(*r.Title)) > maxTitleLen {
		return "Title cannot exceed 120 characters"
	}
	if r.Type != nil && !model.ValidCategory(*r.Type) {
		return "Property type must be pg, hostel or dormitory"
	}
	if r.Price != nil && *r.Price < 0 {
		return "Price cannot be negative"
	}
	if r.Deposit != nil && *r.Deposit < 0 {
		return "Deposit cannot be negative"
	}
	if r.Gender != nil && !model.ValidGender(*r.Gender) {
		return "Gender must be male, female or unisex"
	}
	if r.Description != nil && len(*r.Description) > maxDescriptionLen {
		return "Description cannot exceed 2000 characters"
	}
	return ""
}

// Create handles POST /api/properties (owner only).
func (h *PropertyHandler) Create(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Title is required"})
	}
	if req.Type == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Property type is required"})
	}
	if req.Price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Price is required"})
	}
	if req.Address == nil || strings.TrimSpace(*req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Address is required"})
	}
	if req.City == nil || strings.TrimSpace(*req.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "City is required"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	prop := &model.Property{
		Title:     strings.TrimSpace(*req.Title),
		Type:      *req.Type,
		Price:     *req.Price,
		Gender:    model.GenderUnisex,
		Amenities: []string{},
		Images:    []string{},
		Location:  model.DefaultLocation(),
		Address:   strings.TrimSpace(*req.Address),
		City:      strings.ToLower(strings.TrimSpace(*req.City)),
		Owner:     p.Account.ID,
		Available: true,
	}
	if req.Deposit != nil {
		prop.Deposit = *req.Deposit
	}
	if req.Gender != nil {
		prop.Gender = *req.Gender
	}
	if req.Amenities != nil {
		prop.Amenities = *req.Amenities
	}
	if req.Images != nil {
		prop.Images = *req.Images
	}
	if req.Location != nil && len(req.Location.Coordinates) == 2 {
		prop.Location = *req.Location
		prop.Location.Type = "Point"
	}
	if req.Description != nil {
		prop.Description = strings.TrimSpace(*req.Description)
	}
	if req.ContactNumber != nil {
		prop.ContactNumber = strings.TrimSpace(*req.ContactNumber)
	}
	if req.GoogleMapLink != nil {
		prop.GoogleMapLink = strings.TrimSpace(*req.GoogleMapLink)
	}

	if err := h.Properties.Create(c.Request().Context(), prop); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create property"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "property": prop})
}

// List handles GET /api/properties — the public filtered search.
func (h *PropertyHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	q := repository.SearchQuery{
		Type:      strings.TrimSpace(c.QueryParam("type")),
		City:      strings.TrimSpace(c.QueryParam("city")),
		Gender:    strings.TrimSpace(c.QueryParam("gender")),
		MinPrice:  strings.TrimSpace(c.QueryParam("minPrice")),
		MaxPrice:  strings.TrimSpace(c.QueryParam("maxPrice")),
		Amenities: strings.TrimSpace(c.QueryParam("amenities")),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		Page:      page,
		Limit:     limit,
		Sort:      strings.TrimSpace(c.QueryParam("sort")),
	}

	ctx := c.Request().Context()
	items, total, err := h.Properties.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "search failed"})
	}
	views, err := h.withOwners(ctx, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "search failed"})
	}

	pg, lim, _ := q.Pagination()
	pages := total / lim
	if total%lim != 0 {
		pages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"properties": views,
		"pagination": echo.Map{
			"page":  pg,
			"limit": lim,
			"total": total,
			"pages": pages,
		},
	})
}

// Near handles GET /api/properties/near — the geo-radius search.
func (h *PropertyHandler) Near(c echo.Context) error {
	latStr := strings.TrimSpace(c.QueryParam("lat"))
	lngStr := strings.TrimSpace(c.QueryParam("lng"))
	if latStr == "" || lngStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "lat and lng are required"})
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "lat and lng must be numbers"})
	}
	radius := 5.0
	if r := strings.TrimSpace(c.QueryParam("radius")); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil {
			radius = v
		}
	}

	q := repository.NearQuery{
		Lat:      lat,
		Lng:      lng,
		RadiusKm: radius,
		Type:     strings.TrimSpace(c.QueryParam("type")),
	}
	ctx := c.Request().Context()
	items, err := h.Properties.Near(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "search failed"})
	}
	views, err := h.withOwners(ctx, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "properties": views})
}

// My handles GET /api/properties/my — the owner's own listings.
func (h *PropertyHandler) My(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	items, err := h.Properties.ListByOwner(c.Request().Context(), p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "properties": items})
}

// GetByID handles GET /api/properties/:id — public detail view. Each
// fetch bumps the view counter atomically.
func (h *PropertyHandler) GetByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	ctx := c.Request().Context()
	prop, err := h.Properties.FindByIDAndIncrementViews(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	views, err := h.withOwners(ctx, []model.Property{*prop})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "property": views[0]})
}

// Update handles PUT /api/properties/:id (owner only, own listings).
func (h *PropertyHandler) Update(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}

	ctx := c.Request().Context()
	prop, err := h.Properties.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if prop.Owner != p.Account.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Not authorized"})
	}

	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	// Only allow-listed fields ever reach the $set document.
	set := bson.M{}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Deposit != nil {
		set["deposit"] = *req.Deposit
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}
	if req.Amenities != nil {
		set["amenities"] = *req.Amenities
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}
	if req.Location != nil && len(req.Location.Coordinates) == 2 {
		set["location"] = model.GeoPoint{Type: "Point", Coordinates: req.Location.Coordinates}
	}
	if req.Address != nil {
		set["address"] = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		set["city"] = strings.ToLower(strings.TrimSpace(*req.City))
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		set["available"] = *req.Available
	}
	if req.ContactNumber != nil {
		set["contactNumber"] = strings.TrimSpace(*req.ContactNumber)
	}
	if req.GoogleMapLink != nil {
		set["googleMapLink"] = strings.TrimSpace(*req.GoogleMapLink)
	}

	updated, err := h.Properties.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "property": updated})
}

// Delete handles DELETE /api/properties/:id (owner only, own listings).
func (h *PropertyHandler) Delete(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}

	ctx := c.Request().Context()
	prop, err := h.Properties.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if prop.Owner != p.Account.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Not authorized"})
	}
	if err := h.Properties.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Property deleted"})
}
