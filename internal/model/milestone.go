package model

import "time"

// Milestone is a single step on a project timeline. SortOrder is a plain
// integer sort key: appended milestones get the next value, but uniqueness
// is not enforced.
type Milestone struct {
	ID          uint64     // milestones.id
	ProjectID   uint64     // milestones.project_id
	Title       string     // milestones.title
	Description *string    // milestones.description (nullable)
	DueDate     *time.Time // milestones.due_date (nullable)
	Status      string     // milestones.status (not_started/in_progress/complete)
	SortOrder   int        // milestones.sort_order
	CreatedAt   time.Time  // milestones.created_at
}
