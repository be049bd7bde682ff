package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// AnalyticsHandler summarizes an owner's listings from the view and
// inquiry counters the write paths maintain.
type AnalyticsHandler struct {
	Properties *repository.PropertyRepo
}

func NewAnalyticsHandler(p *repository.PropertyRepo) *AnalyticsHandler {
	return &AnalyticsHandler{Properties: p}
}

type propertyStat struct {
	ID             primitive.ObjectID `json:"_id"`
	Title          string             `json:"title"`
	City           string             `json:"city"`
	ViewsCount     int64              `json:"viewsCount"`
	InquiriesCount int64              `json:"inquiriesCount"`
	Available      bool               `json:"available"`
}

// Overview handles GET /api/owner/analytics: totals across the owner's
// listings, the most viewed one, and a per-listing stat row.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	props, err := h.Properties.ListByOwner(c.Request().Context(), p.Account.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	var totalViews, totalInquiries int64
	stats := make([]propertyStat, 0, len(props))
	var mostViewed *propertyStat
	for _, prop := range props {
		totalViews += prop.ViewsCount
		totalInquiries += prop.InquiriesCount
		stat := propertyStat{
			ID:             prop.ID,
			Title:          prop.Title,
			City:           prop.City,
			ViewsCount:     prop.ViewsCount,
			InquiriesCount: prop.InquiriesCount,
			Available:      prop.Available,
		}
		stats = append(stats, stat)
		if mostViewed == nil || stat.ViewsCount > mostViewed.ViewsCount {
			s := stat
			mostViewed = &s
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"analytics": echo.Map{
			"totalProperties":    len(props),
			"totalViews":         totalViews,
			"totalInquiries":     totalInquiries,
			"mostViewedProperty": mostViewed,
			"propertyStats":      stats,
		},
	})
}
