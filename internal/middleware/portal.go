package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/utils"
)

// PortalProjectID reads an optional portal access token from the
// X-Portal-Token header and, when valid, returns the project id it grants.
// Zero means no usable token was presented. The portal handlers combine
// this with a fresh resolution: the token only substitutes for re-typing
// the password, never for the lookup itself.
func PortalProjectID(c echo.Context, secret string) uint64 {
	raw := c.Request().Header.Get("X-Portal-Token")
	if raw == "" {
		return 0
	}
	id, err := utils.ParsePortalToken(secret, raw)
	if err != nil {
		return 0
	}
	return id
}
