package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/model"
)

type milestoneReq struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateMilestone appends a milestone to an owned project's timeline.
func (h *OwnerHandler) CreateMilestone(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req milestoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, projectID, uid)
	if err != nil {
		return projectError(c, err)
	}
	m := model.Milestone{
		ProjectID:   p.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      lifecycle.MilestoneNotStarted,
	}
	if err := h.Milestones.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create milestone failed"})
	}
	created, err := h.Milestones.ByID(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// loadOwnedMilestone fetches a milestone and walks up to its project to
// enforce ownership.
func (h *OwnerHandler) loadOwnedMilestone(ctx context.Context, id, ownerID uint64) (model.Milestone, error) {
	m, err := h.Milestones.ByID(ctx, id)
	if err != nil {
		return model.Milestone{}, err
	}
	if _, err := loadOwnedProject(ctx, h.Projects, m.ProjectID, ownerID); err != nil {
		return model.Milestone{}, err
	}
	return m, nil
}

// UpdateMilestone overwrites the editable fields of a milestone.
func (h *OwnerHandler) UpdateMilestone(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid milestone id"})
	}
	var req milestoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.loadOwnedMilestone(ctx, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	if err := h.Milestones.Update(ctx, m.ID, req.Title, req.Description, req.DueDate); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.Milestones.ByID(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, fresh)
}

// ToggleMilestone advances a milestone to the next status in the cycle
// not_started, in_progress, complete. The cycle wraps so clicking through
// a finished milestone resets it.
func (h *OwnerHandler) ToggleMilestone(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid milestone id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.loadOwnedMilestone(ctx, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	next := lifecycle.NextMilestoneStatus(m.Status)
	if err := h.Milestones.SetStatus(ctx, m.ID, next); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": m.ID, "status": next})
}

// DeleteMilestone removes a milestone. The ownership check lives in the
// delete statement itself, so a miss and a foreign row look the same.
func (h *OwnerHandler) DeleteMilestone(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid milestone id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Milestones.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "milestone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
