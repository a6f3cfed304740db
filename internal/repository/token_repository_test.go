package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMockTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &TokenRepo{db: db}, mock
}

func TestRotateRevokesOldAndStoresNew(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	exp := time.Now().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE token_hash=\? AND revoked_at IS NULL`).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens \(user_id, token_hash, expires_at\) VALUES \(\?,\?,\?\)`).
		WithArgs(uint64(9), "new-hash", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Rotate(context.Background(), 9, "old-hash", "new-hash", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed insert must roll the revoke back, leaving the presented
// session usable for a retry.
func TestRotateRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockTokenRepo(t)
	exp := time.Now().Add(24 * time.Hour)
	boom := errors.New("insert failed")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\)`).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(uint64(9), "new-hash", exp).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), 9, "old-hash", "new-hash", exp)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
