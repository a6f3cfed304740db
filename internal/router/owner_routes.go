package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/handler"
	"github.com/qdo10/loopin/internal/middleware"
)

// RegisterOwner registers the authenticated dashboard endpoints under /v1.
// All routes require a valid dashboard JWT; per-resource ownership is
// enforced inside the handlers.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Projects ----
	g.GET("/projects", o.ListProjects)
	g.POST("/projects", o.CreateProject)
	g.GET("/projects/:id", o.GetProject)
	g.PUT("/projects/:id", o.UpdateProject)
	g.PATCH("/projects/:id/status", o.SetProjectStatus)
	g.POST("/projects/:id/duplicate", o.DuplicateProject)
	g.DELETE("/projects/:id", o.DeleteProject)
	g.PUT("/projects/:id/password", o.SetProjectPassword)
	g.GET("/projects/:id/analytics", o.ProjectAnalytics)

	// ---- Milestones ----
	g.POST("/projects/:id/milestones", o.CreateMilestone)
	g.PUT("/milestones/:id", o.UpdateMilestone)
	// Toggle advances the milestone through its status cycle.
	g.PATCH("/milestones/:id/toggle", o.ToggleMilestone)
	g.DELETE("/milestones/:id", o.DeleteMilestone)

	// ---- Updates ----
	g.POST("/projects/:id/updates", o.CreateUpdate)
	g.DELETE("/updates/:id", o.DeleteUpdate)

	// ---- Deliverables ----
	g.POST("/projects/:id/deliverables", o.CreateDeliverable)
	g.DELETE("/deliverables/:id", o.DeleteDeliverable)

	// ---- Comment moderation ----
	g.DELETE("/comments/:id", o.DeleteComment)

	// ---- Settings ----
	g.PUT("/settings/profile", o.UpdateProfile)
	g.PUT("/settings/branding", o.UpdateBranding)
}

// RegisterBilling registers the checkout and billing-portal endpoints.
func RegisterBilling(e *echo.Echo, b *handler.BillingHandler, jwtSecret string) {
	g := e.Group("/v1/billing", middleware.JWTAuth(jwtSecret))
	g.POST("/checkout", b.Checkout)
	g.POST("/portal", b.Portal)
}

// RegisterUpload registers the multipart upload endpoint.
func RegisterUpload(e *echo.Echo, u *handler.UploadHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/uploads", u.Upload)
}
