package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/queue"
	queue_publisher "github.com/qdo10/loopin/internal/service"
)

type updateReq struct {
	Content        string  `json:"content"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentName *string `json:"attachment_name"`
	NotifyClient   bool    `json:"notify_client"`
}

// CreateUpdate posts a status update. When notify_client is set and the
// project has a client email, an event goes onto the notification queue;
// publish failures never fail the request.
func (h *OwnerHandler) CreateUpdate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := loadOwnedProject(ctx, h.Projects, projectID, uid)
	if err != nil {
		return projectError(c, err)
	}
	u := model.Update{
		ProjectID:      p.ID,
		Content:        req.Content,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
	}
	if err := h.Updates.Create(ctx, &u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create update failed"})
	}

	if req.NotifyClient && p.ClientEmail != nil && *p.ClientEmail != "" {
		owner, err := h.Users.GetByID(ctx, uid)
		if err == nil {
			ev := queue.UpdatePostedEvent{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				ClientName:  p.ClientName,
				ClientEmail: *p.ClientEmail,
				Content:     req.Content,
				PortalURL:   h.Cfg.AppURL + "/p/" + p.ShareToken,
				PostedAt:    time.Now().UTC().Format(time.RFC3339),
			}
			if owner.BusinessName != nil {
				ev.BusinessName = *owner.BusinessName
			}
			go func() {
				pctx, pcancel := context.WithTimeout(context.Background(), dbTimeout)
				defer pcancel()
				_ = queue_publisher.PublishUpdatePosted(pctx, ev)
			}()
		}
	}

	created, err := h.Updates.ByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// DeleteUpdate removes a status update with the ownership check folded
// into the delete statement.
func (h *OwnerHandler) DeleteUpdate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid update id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Updates.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "update not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
