package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UpdateProfile sets the display name and business name shown on portals.
func (h *OwnerHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Name         *string `json:"name"`
		BusinessName *string `json:"business_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.Name, req.BusinessName); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":          u.Name,
		"business_name": u.BusinessName,
	})
}

// UpdateBranding sets the portal logo and accent color. Branding is a paid
// feature, so the subscription gate runs first.
func (h *OwnerHandler) UpdateBranding(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		LogoURL    *string `json:"logo_url"`
		BrandColor string  `json:"brand_color"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validHexColor(req.BrandColor) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand_color must be a #rrggbb hex value"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Gate.CanUseBranding(u); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "custom branding requires the pro plan"})
	}
	if err := h.Users.UpdateBranding(ctx, uid, req.LogoURL, strings.ToLower(req.BrandColor)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logo_url":    fresh.LogoURL,
		"brand_color": fresh.BrandColor,
	})
}

// validHexColor accepts #rgb or #rrggbb.
func validHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
