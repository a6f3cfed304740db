package model

import "time"

// Update is an append-mostly status log entry posted by the owner,
// optionally carrying an uploaded attachment.
type Update struct {
	ID             uint64    // updates.id
	ProjectID      uint64    // updates.project_id
	Content        string    // updates.content
	AttachmentURL  *string   // updates.attachment_url (nullable)
	AttachmentName *string   // updates.attachment_name (nullable)
	CreatedAt      time.Time // updates.created_at
}
