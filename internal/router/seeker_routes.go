package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stayhq/stay-rental-api/internal/handler"
	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
)

// RegisterSeeker registers the endpoints only seekers may call:
// sending inquiries, writing and deleting reviews, and the wishlist.
// Every route resolves the token via Protect and then requires the
// seeker role, so an owner token is rejected with 403 rather than 401.
func RegisterSeeker(e *echo.Echo, inquiries *handler.InquiryHandler, reviews *handler.ReviewHandler,
	wishlist *handler.WishlistHandler, auth *middleware.Auth) {
	seeker := middleware.RequireRole(model.RoleSeeker)

	e.POST("/api/inquiries", inquiries.Create, auth.Protect(), seeker)
	e.GET("/api/inquiries/user", inquiries.ListForUser, auth.Protect(), seeker)

	e.POST("/api/reviews", reviews.Create, auth.Protect(), seeker)
	e.GET("/api/reviews/user", reviews.ListMine, auth.Protect(), seeker)
	e.DELETE("/api/reviews/:id", reviews.Delete, auth.Protect(), seeker)

	// The wishlist lives on the user document, so its routes sit under the
	// users prefix.
	e.GET("/api/users/saved", wishlist.List, auth.Protect(), seeker)
	e.POST("/api/users/save/:propertyId", wishlist.Save, auth.Protect(), seeker)
	e.DELETE("/api/users/save/:propertyId", wishlist.Unsave, auth.Protect(), seeker)
}
