package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/stayhq/stay-rental-api/internal/handler"
	"github.com/stayhq/stay-rental-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the API banner, the liveness probe, and the public browse surface
// (filtered search, geo search, single listing, per-property reviews).
func RegisterRoutes(e *echo.Echo, props *handler.PropertyHandler, reviews *handler.ReviewHandler) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Healthz)

	// Static segments are matched before the :id parameter, so /near and
	// /my never resolve as listing ids.
	e.GET("/api/properties", props.List)
	e.GET("/api/properties/near", props.Near)
	e.GET("/api/properties/:id", props.GetByID)

	e.GET("/api/reviews/property/:id", reviews.ListByProperty)
}

// RegisterAuth registers both per-role authentication groups and the
// unified identity endpoint.
//
// Each role has its own prefix (/api/users for seekers, /api/owners for
// owners) with the same surface: register, login, Google sign-in,
// profile, refresh and logout. Protected endpoints resolve against that
// role's collection only. The rate limiter guards the credential
// endpoints.
func RegisterAuth(e *echo.Echo, users, owners *handler.AuthHandler, auth *middleware.Auth, limiter echo.MiddlewareFunc) {
	registerAuthGroup(e.Group("/api/users"), users, auth, limiter)

	og := e.Group("/api/owners")
	registerAuthGroup(og, owners, auth, limiter)
	// Owners can edit their contact details; seekers have no profile
	// mutation surface.
	og.PUT("/profile", owners.UpdateProfile, auth.Single(owners.Role))

	// The unified endpoint: the role claim inside the token decides which
	// collection the identity resolves against.
	e.GET("/api/auth/me", users.Me, auth.Protect())
}

func registerAuthGroup(g *echo.Group, h *handler.AuthHandler, auth *middleware.Auth, limiter echo.MiddlewareFunc) {
	g.POST("/register", h.Register, limiter)
	g.POST("/login", h.Login, limiter)
	g.POST("/google", h.GoogleLogin, limiter)
	// Kept for clients that still call the older path.
	g.POST("/google-login", h.GoogleLogin, limiter)

	g.GET("/profile", h.Profile, auth.Single(h.Role))
	g.POST("/refresh", h.Refresh, auth.Single(h.Role))
	// Logout is a GET for parity with the web client's existing calls.
	g.GET("/logout", h.Logout, auth.Single(h.Role))
}
