package model

import "time"

// PortalView is one row per portal page load, kept purely for analytics
// counting. There is no viewer identity.
type PortalView struct {
	ID        uint64    // portal_views.id
	ProjectID uint64    // portal_views.project_id
	ViewedAt  time.Time // portal_views.viewed_at
	UserAgent *string   // portal_views.user_agent (nullable)
	Referrer  *string   // portal_views.referrer (nullable)
}
