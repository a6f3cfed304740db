package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/qdo10/loopin/internal/model"
)

type MilestoneRepo struct{ db *sql.DB }

func NewMilestoneRepo(db *sql.DB) *MilestoneRepo { return &MilestoneRepo{db: db} }

const milestoneColumns = "id,project_id,title,description,due_date,status,sort_order,created_at"

func scanMilestone(row rowScanner) (model.Milestone, error) {
	var (
		m    model.Milestone
		desc sql.NullString
		due  sql.NullTime
	)
	err := row.Scan(&m.ID, &m.ProjectID, &m.Title, &desc, &due, &m.Status, &m.SortOrder, &m.CreatedAt)
	if err != nil {
		return model.Milestone{}, err
	}
	m.Description = nullStr(desc)
	if due.Valid {
		t := due.Time
		m.DueDate = &t
	}
	return m, nil
}

// Create appends a milestone to the project timeline. The sort key is one
// past the current maximum, so new milestones land at the end. The
// subquery reads through a derived table because MySQL forbids a VALUES
// subquery selecting directly from the insert target (error 1093).
func (r *MilestoneRepo) Create(ctx context.Context, m *model.Milestone) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO milestones (project_id, title, description, due_date, status, sort_order) "+
			"VALUES (?,?,?,?,?,(SELECT COALESCE(MAX(so),-1)+1 FROM "+
			"(SELECT sort_order AS so FROM milestones WHERE project_id=?) AS x))",
		m.ProjectID, m.Title, m.Description, m.DueDate, m.Status, m.ProjectID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ByID fetches a milestone by id.
func (r *MilestoneRepo) ByID(ctx context.Context, id uint64) (model.Milestone, error) {
	return scanMilestone(r.db.QueryRowContext(ctx,
		"SELECT "+milestoneColumns+" FROM milestones WHERE id=? LIMIT 1", id))
}

// ListByProject returns a project's milestones in timeline order.
func (r *MilestoneRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+milestoneColumns+" FROM milestones WHERE project_id=? ORDER BY sort_order, id",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites the editable milestone fields.
func (r *MilestoneRepo) Update(ctx context.Context, id uint64, title string, description *string, dueDate *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE milestones SET title=?, description=?, due_date=? WHERE id=?",
		title, description, dueDate, id)
	return err
}

// SetStatus writes a milestone status. Concurrent toggles are independent
// per-row updates; last write wins.
func (r *MilestoneRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE milestones SET status=? WHERE id=?", status, id)
	return err
}

// Delete removes a milestone, checking project ownership in the same
// statement. Returns sql.ErrNoRows when nothing matched.
func (r *MilestoneRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE m FROM milestones m JOIN projects p ON p.id=m.project_id WHERE m.id=? AND p.user_id=?",
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
