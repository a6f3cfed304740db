package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProjectAnalytics returns view counts for an owned project: all-time,
// trailing week, trailing day, and the most recent view timestamps.
func (h *OwnerHandler) ProjectAnalytics(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	stats, err := h.Views.Stats(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
