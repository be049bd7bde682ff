package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stayhq/stay-rental-api/internal/handler"
	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
)

// RegisterOwner registers the endpoints only owners may call: listing
// management, the received-inquiries view with the respond flow, and
// the analytics overview.
func RegisterOwner(e *echo.Echo, props *handler.PropertyHandler, inquiries *handler.InquiryHandler,
	analytics *handler.AnalyticsHandler, auth *middleware.Auth) {
	owner := middleware.RequireRole(model.RoleOwner)

	e.POST("/api/properties", props.Create, auth.Protect(), owner)
	e.GET("/api/properties/my", props.My, auth.Protect(), owner)
	e.PUT("/api/properties/:id", props.Update, auth.Protect(), owner)
	e.DELETE("/api/properties/:id", props.Delete, auth.Protect(), owner)

	e.GET("/api/inquiries/owner", inquiries.ListForOwner, auth.Protect(), owner)
	e.PUT("/api/inquiries/:id/respond", inquiries.Respond, auth.Protect(), owner)

	e.GET("/api/owner/analytics", analytics.Overview, auth.Protect(), owner)
}
