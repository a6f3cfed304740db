package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/access"
	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/middleware"
	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/utils"
)

// Narrow read interfaces keep the portal handler testable without a
// database.
type (
	MilestoneLister interface {
		ListByProject(ctx context.Context, projectID uint64) ([]model.Milestone, error)
	}
	UpdateLister interface {
		ListByProject(ctx context.Context, projectID uint64) ([]model.Update, error)
	}
	DeliverableLister interface {
		ListByProject(ctx context.Context, projectID uint64) ([]model.Deliverable, error)
	}
	CommentStore interface {
		Create(ctx context.Context, c *model.Comment) error
		ListByProject(ctx context.Context, projectID uint64) ([]model.Comment, error)
	}
	ViewRecorder interface {
		Record(ctx context.Context, projectID uint64, userAgent, referrer *string) error
	}
	OwnerSource interface {
		GetByID(ctx context.Context, id uint64) (model.User, error)
	}
)

// PortalHandler serves the anonymous client-facing portal. Every request
// is resolved fresh against the share token; the only viewer state is an
// optional signed portal token that stands in for re-typing the password.
type PortalHandler struct {
	Cfg          config.Config
	Resolver     *access.Resolver
	Projects     access.ProjectSource
	Users        OwnerSource
	Milestones   MilestoneLister
	Updates      UpdateLister
	Deliverables DeliverableLister
	Comments     CommentStore
	Views        ViewRecorder
}

func NewPortalHandler(cfg config.Config, projects access.ProjectSource, users OwnerSource,
	milestones MilestoneLister, updates UpdateLister, deliverables DeliverableLister,
	comments CommentStore, views ViewRecorder) *PortalHandler {
	return &PortalHandler{
		Cfg:          cfg,
		Resolver:     access.NewResolver(projects),
		Projects:     projects,
		Users:        users,
		Milestones:   milestones,
		Updates:      updates,
		Deliverables: deliverables,
		Comments:     comments,
		Views:        views,
	}
}

// resolveViewer resolves access for a request that carries no password.
// When the project is password-protected, a valid portal token whose
// subject matches the resolved project substitutes for the password.
func (h *PortalHandler) resolveViewer(ctx context.Context, c echo.Context, token string) (access.Decision, error) {
	d, err := h.Resolver.Resolve(ctx, token, nil)
	if err != nil || d.Granted || d.Reason != access.ReasonPasswordRequired {
		return d, err
	}
	pid := middleware.PortalProjectID(c, h.Cfg.JWTSecret)
	if pid == 0 {
		return d, nil
	}
	p, err := h.Projects.ActiveByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return access.Decision{Reason: access.ReasonNotFound}, nil
		}
		return access.Decision{}, err
	}
	if p.ID != pid {
		return d, nil
	}
	return access.Decision{Granted: true, Reason: access.ReasonOK, Project: p}, nil
}

// denied maps a non-granted decision onto an HTTP response. Unknown,
// archived and completed portals all answer 404.
func denied(c echo.Context, d access.Decision) error {
	switch d.Reason {
	case access.ReasonNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "portal not found"})
	case access.ReasonPasswordRequired:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password required", "reason": string(d.Reason)})
	case access.ReasonIncorrectPassword:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect password", "reason": string(d.Reason)})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
}

// Show renders the full portal payload: the project, its timeline,
// updates, deliverables, comments and the owner's branding. Nothing
// owner-internal (share token aside, which the viewer already holds)
// leaves this endpoint.
func (h *PortalHandler) Show(c echo.Context) error {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.resolveViewer(ctx, c, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
	if !d.Granted {
		return denied(c, d)
	}
	p := d.Project

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

	branding := echo.Map{}
	if owner, err := h.Users.GetByID(ctx, p.UserID); err == nil {
		branding = echo.Map{
			"name":          owner.Name,
			"business_name": owner.BusinessName,
			"logo_url":      owner.LogoURL,
			"brand_color":   owner.BrandColor,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"project": echo.Map{
			"name":        p.Name,
			"client_name": p.ClientName,
			"description": p.Description,
			"status":      p.Status,
		},
		"progress":     lifecycle.Progress(milestones),
		"milestones":   milestones,
		"updates":      updates,
		"deliverables": deliverables,
		"comments":     comments,
		"branding":     branding,
	})
}

// Verify checks a portal password and, on success, issues a short-lived
// portal token the client presents on subsequent requests.
func (h *PortalHandler) Verify(c echo.Context) error {
	token := c.Param("token")
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Resolver.Resolve(ctx, token, &req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
	if !d.Granted {
		return denied(c, d)
	}
	ttl := time.Duration(h.Cfg.PortalTTLMin) * time.Minute
	pt, err := utils.NewPortalToken(h.Cfg.JWTSecret, d.Project.ID, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"portal_token": pt.Token,
		"expires_at":   pt.Exp,
	})
}

// RecordView logs one portal visit. Only granted viewers count; the write
// itself is best-effort and never blocks the response.
func (h *PortalHandler) RecordView(c echo.Context) error {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.resolveViewer(ctx, c, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
	if !d.Granted {
		return denied(c, d)
	}

	var ua, ref *string
	if v := c.Request().UserAgent(); v != "" {
		ua = &v
	}
	if v := c.Request().Referer(); v != "" {
		ref = &v
	}
	if err := h.Views.Record(ctx, d.Project.ID, ua, ref); err != nil {
		c.Logger().Warnf("portal view record failed: %v", err)
	}
	return c.NoContent(http.StatusCreated)
}

// ListComments returns a granted viewer's conversation view, oldest
// first.
func (h *PortalHandler) ListComments(c echo.Context) error {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.resolveViewer(ctx, c, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
	if !d.Granted {
		return denied(c, d)
	}
	comments, err := h.Comments.ListByProject(ctx, d.Project.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// CreateComment posts an anonymous comment from a granted viewer.
func (h *PortalHandler) CreateComment(c echo.Context) error {
	token := c.Param("token")
	var req struct {
		AuthorName  string  `json:"author_name"`
		AuthorEmail *string `json:"author_email"`
		Content     string  `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.Content = strings.TrimSpace(req.Content)
	if req.AuthorName == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "author_name/content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.resolveViewer(ctx, c, token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolution failed"})
	}
	if !d.Granted {
		return denied(c, d)
	}

	cm := model.Comment{
		ProjectID:   d.Project.ID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}
