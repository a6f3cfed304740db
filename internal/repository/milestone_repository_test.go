package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/lifecycle"
	"github.com/qdo10/loopin/internal/model"
)

func newMockRepoDB(t *testing.T) (*MilestoneRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &MilestoneRepo{db: db}, mock
}

func TestMilestoneCreateAppendsViaDerivedTable(t *testing.T) {
	repo, mock := newMockRepoDB(t)

	// MySQL rejects a VALUES subquery that selects straight from the
	// insert target (error 1093), so the sort_order computation must go
	// through a derived table. The regexp pins that exact shape.
	mock.ExpectExec(`INSERT INTO milestones \(project_id, title, description, due_date, status, sort_order\) `+
		`VALUES \(\?,\?,\?,\?,\?,\(SELECT COALESCE\(MAX\(so\),-1\)\+1 FROM `+
		`\(SELECT sort_order AS so FROM milestones WHERE project_id=\?\) AS x\)\)`).
		WithArgs(uint64(7), "Design review", nil, nil, lifecycle.MilestoneNotStarted, uint64(7)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	m := model.Milestone{ProjectID: 7, Title: "Design review", Status: lifecycle.MilestoneNotStarted}
	require.NoError(t, repo.Create(context.Background(), &m))
	require.Equal(t, uint64(42), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
