package repository

import (
	"context"
	"database/sql"

	"github.com/qdo10/loopin/internal/model"
)

type DeliverableRepo struct{ db *sql.DB }

func NewDeliverableRepo(db *sql.DB) *DeliverableRepo { return &DeliverableRepo{db: db} }

const deliverableColumns = "id,project_id,name,description,file_url,file_size,created_at"

func scanDeliverable(row rowScanner) (model.Deliverable, error) {
	var (
		d    model.Deliverable
		desc sql.NullString
	)
	err := row.Scan(&d.ID, &d.ProjectID, &d.Name, &desc, &d.FileURL, &d.FileSize, &d.CreatedAt)
	if err != nil {
		return model.Deliverable{}, err
	}
	d.Description = nullStr(desc)
	return d, nil
}

// Create records a delivered file.
func (r *DeliverableRepo) Create(ctx context.Context, d *model.Deliverable) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO deliverables (project_id, name, description, file_url, file_size) VALUES (?,?,?,?,?)",
		d.ProjectID, d.Name, d.Description, d.FileURL, d.FileSize)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// ByID fetches a deliverable by id.
func (r *DeliverableRepo) ByID(ctx context.Context, id uint64) (model.Deliverable, error) {
	return scanDeliverable(r.db.QueryRowContext(ctx,
		"SELECT "+deliverableColumns+" FROM deliverables WHERE id=? LIMIT 1", id))
}

// ListByProject returns a project's deliverables, newest first.
func (r *DeliverableRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Deliverable, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+deliverableColumns+" FROM deliverables WHERE project_id=? ORDER BY created_at DESC, id DESC",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a deliverable, checking project ownership in the same
// statement. Returns sql.ErrNoRows when nothing matched. The stored file
// itself stays in object storage; rows only hold pointers.
func (r *DeliverableRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE d FROM deliverables d JOIN projects p ON p.id=d.project_id WHERE d.id=? AND p.user_id=?",
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
