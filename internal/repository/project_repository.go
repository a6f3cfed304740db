package repository

import (
	"context"
	"database/sql"

	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/model"
)

type ProjectRepo struct{ db *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// DB exposes the underlying handle for handler-level transactions.
func (r *ProjectRepo) DB() *sql.DB { return r.db }

const projectColumns = "id,user_id,name,client_name,client_email,description,share_token,password_hash,status,created_at,updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanProject(row rowScanner) (model.Project, error) {
	var (
		p                        model.Project
		clientEmail, desc, hash sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ClientName, &clientEmail, &desc,
		&p.ShareToken, &hash, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	p.ClientEmail = nullStr(clientEmail)
	p.Description = nullStr(desc)
	p.PasswordHash = nullStr(hash)
	return p, nil
}

// CountActiveByOwner returns the number of active-status projects the user
// owns, computed fresh on every call. Satisfies plan.ActiveCounter.
func (r *ProjectRepo) CountActiveByOwner(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE user_id=? AND status=?",
		userID, lifecycle.StatusActive).Scan(&n)
	return n, err
}

// countActiveForUpdateTx is the locking variant used inside gated inserts.
// The FOR UPDATE range scan over (user_id, status) takes next-key locks, so
// a concurrent gated insert for the same owner blocks until this
// transaction commits. That closes the read-then-write race where two
// creates both observe count=0.
func countActiveForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE user_id=? AND status=? FOR UPDATE",
		userID, lifecycle.StatusActive).Scan(&n)
	return n, err
}

func createTx(ctx context.Context, tx *sql.Tx, p *model.Project) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO projects (user_id, name, client_name, client_email, description, share_token, status) VALUES (?,?,?,?,?,?,?)",
		p.UserID, p.Name, p.ClientName, p.ClientEmail, p.Description, p.ShareToken, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// CreateGated inserts a new project inside a single transaction that first
// counts the owner's active projects under lock. maxActive <= 0 means
// unlimited (pro plan); otherwise the insert fails with ErrPlanLimit once
// the owner already holds maxActive active projects.
func (r *ProjectRepo) CreateGated(ctx context.Context, p *model.Project, maxActive int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if maxActive > 0 {
		n, err := countActiveForUpdateTx(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		if n >= maxActive {
			return ErrPlanLimit
		}
	}
	if err := createTx(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

// DuplicateGated clones a project and its milestones in one transaction,
// subject to the same active-project gate as CreateGated. The clone copies
// name (already suffixed by the caller), client fields and description,
// gets a fresh share token, starts active with no password, and every
// copied milestone is reset to not_started. Updates, deliverables,
// comments and views are never copied.
func (r *ProjectRepo) DuplicateGated(ctx context.Context, src model.Project, clone *model.Project, maxActive int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if maxActive > 0 {
		n, err := countActiveForUpdateTx(ctx, tx, clone.UserID)
		if err != nil {
			return err
		}
		if n >= maxActive {
			return ErrPlanLimit
		}
	}
	if err := createTx(ctx, tx, clone); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO milestones (project_id, title, description, due_date, status, sort_order) "+
			"SELECT ?, title, description, due_date, ?, sort_order FROM milestones WHERE project_id=?",
		clone.ID, lifecycle.MilestoneNotStarted, src.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// ByID fetches a project by id.
func (r *ProjectRepo) ByID(ctx context.Context, id uint64) (model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id=? LIMIT 1", id))
}

// ActiveByShareToken fetches a project by its share token, active status
// only. Non-active projects fall through to sql.ErrNoRows so viewers
// cannot tell them apart from nonexistent ones. Satisfies
// access.ProjectSource.
func (r *ProjectRepo) ActiveByShareToken(ctx context.Context, token string) (model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE share_token=? AND status=? LIMIT 1",
		token, lifecycle.StatusActive))
}

// ListByOwner returns all of a user's projects, newest first.
func (r *ProjectRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateFields overwrites the editable project fields.
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uint64, name, clientName string, clientEmail, description *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE projects SET name=?, client_name=?, client_email=?, description=? WHERE id=?",
		name, clientName, clientEmail, description, id)
	return err
}

// SetStatus writes a new lifecycle status. Transition validity is checked
// by the caller against the lifecycle table.
func (r *ProjectRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE projects SET status=? WHERE id=?", status, id)
	return err
}

// SetPasswordHash sets or clears (nil) the portal password hash.
func (r *ProjectRepo) SetPasswordHash(ctx context.Context, id uint64, hash *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE projects SET password_hash=? WHERE id=?", hash, id)
	return err
}

// Delete removes the project row; milestones, updates, deliverables,
// comments and portal views go with it through the ON DELETE CASCADE
// foreign keys.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
	return err
}
