package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/model"
)

type deliverableReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	FileURL     string  `json:"file_url"`
	FileSize    int64   `json:"file_size"`
}

// CreateDeliverable records a delivered file against a project. The file
// itself is uploaded separately; this only stores the pointer.
func (h *OwnerHandler) CreateDeliverable(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req deliverableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.FileURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/file_url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, projectID, uid)
	if err != nil {
		return projectError(c, err)
	}
	d := model.Deliverable{
		ProjectID:   p.ID,
		Name:        req.Name,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
	}
	if err := h.Deliverables.Create(ctx, &d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create deliverable failed"})
	}
	created, err := h.Deliverables.ByID(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// DeleteDeliverable removes a deliverable row. The stored object stays in
// object storage.
func (h *OwnerHandler) DeleteDeliverable(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid deliverable id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Deliverables.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "deliverable not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteComment lets the owner moderate portal comments. Viewers cannot
// delete anything.
func (h *OwnerHandler) DeleteComment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Comments.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
