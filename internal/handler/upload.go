package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/repository"
	"github.com/qdo10/loopin/internal/storage"
)

// uploadTimeout is longer than dbTimeout; object storage writes carry the
// whole file body.
const uploadTimeout = 30 * time.Second

// maxUploadBytes caps a single uploaded file at 50 MB.
const maxUploadBytes = 50 << 20

// UploadHandler streams multipart uploads into object storage. Project
// scoped kinds (deliverable, attachment) require ownership of the target
// project; logos are scoped to the user.
type UploadHandler struct {
	Cfg      config.Config
	Store    *storage.Store
	Projects *repository.ProjectRepo
}

func NewUploadHandler(cfg config.Config, store *storage.Store, projects *repository.ProjectRepo) *UploadHandler {
	if store == nil || projects == nil {
		panic("nil dependency passed to NewUploadHandler")
	}
	return &UploadHandler{Cfg: cfg, Store: store, Projects: projects}
}

// Upload accepts a multipart form with a "file" part, a "kind" field
// (deliverable, attachment or logo) and, for project kinds, a
// "project_id" field. It responds with the public URL of the stored
// object.
func (h *UploadHandler) Upload(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	kind := storage.Kind(c.FormValue("kind"))
	switch kind {
	case storage.KindDeliverable, storage.KindAttachment, storage.KindLogo:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), uploadTimeout)
	defer cancel()

	// Logos are keyed under the user; everything else under an owned
	// project.
	scopeID := uid
	if kind != storage.KindLogo {
		projectID, err := parseFormID(c, "project_id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "project_id required"})
		}
		p, err := loadOwnedProject(ctx, h.Projects, projectID, uid)
		if err != nil {
			return projectError(c, err)
		}
		scopeID = p.ID
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.Store.Upload(ctx, kind, scopeID, fh.Filename, contentType, src)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"url":      url,
		"filename": fh.Filename,
		"size":     fh.Size,
	})
}
