package repository

import (
	"context"
	"database/sql"

	"github.com/qdo10/loopin/internal/model"
)

type CommentRepo struct{ db *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentColumns = "id,project_id,author_name,author_email,content,created_at"

func scanComment(row rowScanner) (model.Comment, error) {
	var (
		c     model.Comment
		email sql.NullString
	)
	err := row.Scan(&c.ID, &c.ProjectID, &c.AuthorName, &email, &c.Content, &c.CreatedAt)
	if err != nil {
		return model.Comment{}, err
	}
	c.AuthorEmail = nullStr(email)
	return c, nil
}

// Create inserts a portal comment and reads the row back so the caller
// gets the server-assigned id and timestamp.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (project_id, author_name, author_email, content) VALUES (?,?,?,?)",
		c.ProjectID, c.AuthorName, c.AuthorEmail, c.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanComment(r.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=? LIMIT 1", id))
	if err != nil {
		return err
	}
	*c = stored
	return nil
}

// ListByProject returns a project's comments, oldest first (conversation
// order).
func (r *CommentRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE project_id=? ORDER BY created_at, id",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a comment on behalf of the project owner. Portal viewers
// cannot delete; ownership is checked through the project row. Returns
// sql.ErrNoRows when nothing matched.
func (r *CommentRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE c FROM comments c JOIN projects p ON p.id=c.project_id WHERE c.id=? AND p.user_id=?",
		id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
