package repository

import (
	"context"
	"database/sql"

	"github.com/qdo10/loopin/internal/model"
)

type UpdateRepo struct{ db *sql.DB }

func NewUpdateRepo(db *sql.DB) *UpdateRepo { return &UpdateRepo{db: db} }

const updateColumns = "id,project_id,content,attachment_url,attachment_name,created_at"

func scanUpdate(row rowScanner) (model.Update, error) {
	var (
		u        model.Update
		url, nm  sql.NullString
	)
	err := row.Scan(&u.ID, &u.ProjectID, &u.Content, &url, &nm, &u.CreatedAt)
	if err != nil {
		return model.Update{}, err
	}
	u.AttachmentURL = nullStr(url)
	u.AttachmentName = nullStr(nm)
	return u, nil
}

// Create appends a status update to the project log.
func (r *UpdateRepo) Create(ctx context.Context, u *model.Update) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO updates (project_id, content, attachment_url, attachment_name) VALUES (?,?,?,?)",
		u.ProjectID, u.Content, u.AttachmentURL, u.AttachmentName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// ByID fetches an update by id.
func (r *UpdateRepo) ByID(ctx context.Context, id uint64) (model.Update, error) {
	return scanUpdate(r.db.QueryRowContext(ctx,
		"SELECT "+updateColumns+" FROM updates WHERE id=? LIMIT 1", id))
}

// ListByProject returns a project's updates, newest first.
func (r *UpdateRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Update, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+updateColumns+" FROM updates WHERE project_id=? ORDER BY created_at DESC, id DESC",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes an update, checking project ownership in the same
// statement. Returns sql.ErrNoRows when nothing matched.
func (r *UpdateRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE u FROM updates u JOIN projects p ON p.id=u.project_id WHERE u.id=? AND p.user_id=?",
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
