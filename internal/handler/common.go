package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/repository"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id set by the JWT middleware and converts it
// to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseFormID parses a numeric multipart/form field.
func parseFormID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.FormValue(name), 10, 64)
}

// loadOwnedProject fetches a project and enforces that the caller owns it.
// Unknown ids map to sql.ErrNoRows, foreign ids to ErrForbidden.
func loadOwnedProject(ctx context.Context, projects *repository.ProjectRepo, id, ownerID uint64) (model.Project, error) {
	p, err := projects.ByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	if p.UserID != ownerID {
		return model.Project{}, repository.ErrForbidden
	}
	return p, nil
}

// projectError maps the common lookup failures onto HTTP responses.
func projectError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
}
