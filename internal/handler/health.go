package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root is the banner endpoint at GET /.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "API is running"})
}

// Healthz reports liveness for orchestration probes.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
