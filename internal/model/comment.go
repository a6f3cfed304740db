package model

import "time"

// Comment is posted by an anonymous portal viewer. The author email is
// optional and never verified.
type Comment struct {
	ID          uint64    // comments.id
	ProjectID   uint64    // comments.project_id
	AuthorName  string    // comments.author_name
	AuthorEmail *string   // comments.author_email (nullable)
	Content     string    // comments.content
	CreatedAt   time.Time // comments.created_at
}
