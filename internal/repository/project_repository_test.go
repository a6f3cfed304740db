package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/model"
)

func newMockProjectRepo(t *testing.T) (*ProjectRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ProjectRepo{db: db}, mock
}

// Duplication copies the milestone timeline with every status reset to
// not_started and touches no other child table. Expectations are ordered,
// so any statement against updates, deliverables or comments would fail
// the test.
func TestDuplicateGatedCopiesMilestonesOnly(t *testing.T) {
	repo, mock := newMockProjectRepo(t)

	src := model.Project{ID: 5, UserID: 3, Name: "Site redesign", ClientName: "Acme"}
	clone := model.Project{
		UserID:     3,
		Name:       "Site redesign (copy)",
		ClientName: "Acme",
		ShareToken: "tok-fresh",
		Status:     lifecycle.StatusActive,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE user_id=\? AND status=\? FOR UPDATE`).
		WithArgs(uint64(3), lifecycle.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO projects \(user_id, name, client_name, client_email, description, share_token, status\)`).
		WithArgs(uint64(3), "Site redesign (copy)", "Acme", nil, nil, "tok-fresh", lifecycle.StatusActive).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`INSERT INTO milestones \(project_id, title, description, due_date, status, sort_order\) `+
		`SELECT \?, title, description, due_date, \?, sort_order FROM milestones WHERE project_id=\?`).
		WithArgs(uint64(11), lifecycle.MilestoneNotStarted, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.DuplicateGated(context.Background(), src, &clone, 3))
	require.Equal(t, uint64(11), clone.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateGatedAtLimit(t *testing.T) {
	repo, mock := newMockProjectRepo(t)

	src := model.Project{ID: 5, UserID: 3}
	clone := model.Project{UserID: 3, Name: "Copy", ClientName: "Acme", ShareToken: "t", Status: lifecycle.StatusActive}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE user_id=\? AND status=\? FOR UPDATE`).
		WithArgs(uint64(3), lifecycle.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.DuplicateGated(context.Background(), src, &clone, 3)
	require.ErrorIs(t, err, ErrPlanLimit)
	require.Zero(t, clone.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateGatedUnlimitedSkipsCount(t *testing.T) {
	repo, mock := newMockProjectRepo(t)

	src := model.Project{ID: 5, UserID: 3}
	clone := model.Project{UserID: 3, Name: "Copy", ClientName: "Acme", ShareToken: "t", Status: lifecycle.StatusActive}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO projects`).
		WithArgs(uint64(3), "Copy", "Acme", nil, nil, "t", lifecycle.StatusActive).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO milestones .+SELECT \?, title`).
		WithArgs(uint64(12), lifecycle.MilestoneNotStarted, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.DuplicateGated(context.Background(), src, &clone, 0))
	require.NoError(t, mock.ExpectationsWereMet())
}
