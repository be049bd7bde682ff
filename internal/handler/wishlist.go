package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// WishlistHandler serves the seeker's saved-properties list.
type WishlistHandler struct {
	Accounts   *repository.Accounts
	Properties *repository.PropertyRepo
}

func NewWishlistHandler(a *repository.Accounts, p *repository.PropertyRepo) *WishlistHandler {
	return &WishlistHandler{Accounts: a, Properties: p}
}

// Save handles POST /api/users/save/:propertyId. Saving something
// already on the list is an error, matching the duplicate-inquiry
// behavior.
func (h *WishlistHandler) Save(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	propID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
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

	err = h.Accounts.Users.SaveProperty(ctx, p.Account.ID, propID)
	if errors.Is(err, repository.ErrAlreadySaved) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Already saved"})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "account not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Property saved"})
}

// Unsave handles DELETE /api/users/save/:propertyId. Removing an absent
// entry still succeeds.
func (h *WishlistHandler) Unsave(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	propID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Property not found"})
	}
	err = h.Accounts.Users.UnsaveProperty(c.Request().Context(), p.Account.ID, propID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "account not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "remove failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Property removed"})
}

// List handles GET /api/users/saved — the saved listings, hydrated with
// their owners. Ids whose listing has since been deleted are skipped.
func (h *WishlistHandler) List(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	ctx := c.Request().Context()
	ids, err := h.Accounts.Users.SavedPropertyIDs(ctx, p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	props, err := h.Properties.FindManyByID(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(props))
	for _, prop := range props {
		ownerIDs = append(ownerIDs, prop.Owner)
	}
	owners, err := h.Accounts.Owners.FindManyByID(ctx, ownerIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	views := make([]propertyView, 0, len(props))
	for _, prop := range props {
		v := propertyView{Property: prop, Owner: prop.Owner}
		if o, ok := owners[prop.Owner]; ok {
			v.Owner = o.Sanitized()
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "properties": views})
}
