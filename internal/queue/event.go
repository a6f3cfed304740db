// Package queue defines message payloads exchanged over the message broker.
package queue

// UpdatePostedEvent is published when an owner posts a status update with
// client notification enabled. It carries enough information for the
// consumer to compose the notification without querying the primary
// database.
type UpdatePostedEvent struct {
	ProjectID    uint64 `json:"project_id"`
	ProjectName  string `json:"project_name"`
	ClientName   string `json:"client_name"`
	ClientEmail  string `json:"client_email"`
	BusinessName string `json:"business_name,omitempty"`
	Content      string `json:"content"`
	PortalURL    string `json:"portal_url"`
	PostedAt     string `json:"posted_at"`
}
