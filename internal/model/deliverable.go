package model

import "time"

// Deliverable is a named pointer to a stored file handed over to the
// client, plus its size in bytes.
type Deliverable struct {
	ID          uint64    // deliverables.id
	ProjectID   uint64    // deliverables.project_id
	Name        string    // deliverables.name
	Description *string   // deliverables.description (nullable)
	FileURL     string    // deliverables.file_url
	FileSize    int64     // deliverables.file_size
	CreatedAt   time.Time // deliverables.created_at
}
