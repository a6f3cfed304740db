package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/plan"
	"github.com/qdo10/loopin/internal/repository"
	"github.com/qdo10/loopin/internal/utils"
)

// ----- DTOs -----

type projectReq struct {
	Name        string  `json:"name"`
	ClientName  string  `json:"client_name"`
	ClientEmail *string `json:"client_email"`
	Description *string `json:"description"`
}

type projectResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	ClientName  string    `json:"client_name"`
	ClientEmail *string   `json:"client_email"`
	Description *string   `json:"description"`
	ShareToken  string    `json:"share_token"`
	HasPassword bool      `json:"has_password"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProjectResp(p model.Project) projectResp {
	return projectResp{
		ID:          p.ID,
		Name:        p.Name,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Description: p.Description,
		ShareToken:  p.ShareToken,
		HasPassword: p.PasswordHash != nil,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r projectReq) normalize() projectReq {
	r.Name = strings.TrimSpace(r.Name)
	r.ClientName = strings.TrimSpace(r.ClientName)
	return r
}

// maxActiveFor translates a plan into the gate value CreateGated expects:
// zero means unlimited.
func maxActiveFor(u model.User) int {
	if plan.IsPro(u.Plan) {
		return 0
	}
	return plan.FreeActiveLimit
}

// ListProjects returns the caller's projects with timeline progress.
func (h *OwnerHandler) ListProjects(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	projects, err := h.Projects.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(projects))
	for _, p := range projects {
		ms, err := h.Milestones.ListByProject(ctx, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		out = append(out, echo.Map{
			"project":    toProjectResp(p),
			"progress":   lifecycle.Progress(ms),
			"milestones": len(ms),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"projects": out})
}

// CreateProject creates a project subject to the subscription gate. The
// authoritative limit check happens inside the store's transactional
// count-and-insert.
func (h *OwnerHandler) CreateProject(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req = req.normalize()
	if req.Name == "" || req.ClientName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/client_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if err := h.Gate.CanCreateProject(ctx, u); err != nil {
		if errors.Is(err, plan.ErrProjectLimit) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "active project limit reached, upgrade to pro"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token, err := utils.NewShareToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	p := model.Project{
		UserID:      uid,
		Name:        req.Name,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Description: req.Description,
		ShareToken:  token,
		Status:      lifecycle.StatusActive,
	}
	if err := h.Projects.CreateGated(ctx, &p, maxActiveFor(u)); err != nil {
		if errors.Is(err, repository.ErrPlanLimit) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "active project limit reached, upgrade to pro"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
	}
	created, err := h.Projects.ByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, toProjectResp(created))
}

// GetProject returns one owned project with its milestones, updates,
// deliverables and comments.
func (h *OwnerHandler) GetProject(c echo.Context) error {
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
	milestones, err := h.Milestones.ListByProject(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	updates, err := h.Updates.ListByProject(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	deliverables, err := h.Deliverables.ListByProject(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Comments.ListByProject(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"project":      toProjectResp(p),
		"progress":     lifecycle.Progress(milestones),
		"milestones":   milestones,
		"updates":      updates,
		"deliverables": deliverables,
		"comments":     comments,
	})
}

// UpdateProject overwrites the editable fields of an owned project.
func (h *OwnerHandler) UpdateProject(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req = req.normalize()
	if req.Name == "" || req.ClientName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/client_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	if err := h.Projects.UpdateFields(ctx, p.ID, req.Name, req.ClientName, req.ClientEmail, req.Description); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidatePortal(ctx, p.ShareToken)
	updated, err := h.Projects.ByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProjectResp(updated))
}

// SetProjectStatus applies an explicit lifecycle transition (complete,
// reopen, archive, restore). Invalid moves are rejected with 409.
func (h *OwnerHandler) SetProjectStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !lifecycle.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	if !lifecycle.CanTransition(p.Status, req.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	}
	if err := h.Projects.SetStatus(ctx, p.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidatePortal(ctx, p.ShareToken)
	return c.JSON(http.StatusOK, echo.Map{"id": p.ID, "status": req.Status})
}

// DuplicateProject clones an owned project and its milestone timeline.
// The clone counts as a fresh create, so the subscription gate applies.
func (h *OwnerHandler) DuplicateProject(c echo.Context) error {
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

	src, err := loadOwnedProject(ctx, h.Projects, id, uid)
	if err != nil {
		return projectError(c, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	token, err := utils.NewShareToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	clone := model.Project{
		UserID:      uid,
		Name:        lifecycle.DuplicateName(src.Name),
		ClientName:  src.ClientName,
		ClientEmail: src.ClientEmail,
		Description: src.Description,
		ShareToken:  token,
		Status:      lifecycle.StatusActive,
	}
	if err := h.Projects.DuplicateGated(ctx, src, &clone, maxActiveFor(u)); err != nil {
		if errors.Is(err, repository.ErrPlanLimit) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "active project limit reached, upgrade to pro"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "duplicate failed"})
	}
	created, err := h.Projects.ByID(ctx, clone.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, toProjectResp(created))
}

// DeleteProject removes a project and, via cascade, everything under it.
func (h *OwnerHandler) DeleteProject(c echo.Context) error {
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
	if err := h.Projects.Delete(ctx, p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.invalidatePortal(ctx, p.ShareToken)
	return c.NoContent(http.StatusNoContent)
}

// SetProjectPassword sets or clears the portal password. Setting requires
// the pro plan; clearing is always allowed since it only removes a gate.
func (h *OwnerHandler) SetProjectPassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	password := strings.TrimSpace(req.Password)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, id, uid)
	if err != nil {
		return projectError(c, err)
	}

	if password == "" {
		if err := h.Projects.SetPasswordHash(ctx, p.ID, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		h.invalidatePortal(ctx, p.ShareToken)
		return c.JSON(http.StatusOK, echo.Map{"has_password": false})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if err := h.Gate.CanUsePasswords(u); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "password protection requires the pro plan"})
	}
	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Projects.SetPasswordHash(ctx, p.ID, &hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.invalidatePortal(ctx, p.ShareToken)
	return c.JSON(http.StatusOK, echo.Map{"has_password": true})
}
