package access

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/utils"
)

type stubSource struct {
	projects map[string]model.Project
	err      error
}

func (s stubSource) ActiveByShareToken(_ context.Context, token string) (model.Project, error) {
	if s.err != nil {
		return model.Project{}, s.err
	}
	p, ok := s.projects[token]
	if !ok {
		return model.Project{}, sql.ErrNoRows
	}
	return p, nil
}

func strptr(s string) *string { return &s }

func TestResolveUnknownToken(t *testing.T) {
	t.Parallel()
	r := NewResolver(stubSource{projects: map[string]model.Project{}})

	d, err := r.Resolve(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, ReasonNotFound, d.Reason)
	assert.Zero(t, d.Project.ID)
}

func TestResolveOpenProject(t *testing.T) {
	t.Parallel()
	r := NewResolver(stubSource{projects: map[string]model.Project{
		"tok": {ID: 7, Name: "Site Redesign"},
	}})

	d, err := r.Resolve(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, ReasonOK, d.Reason)
	assert.Equal(t, uint64(7), d.Project.ID)

	// a supplied password is irrelevant when no hash is set
	d, err = r.Resolve(context.Background(), "tok", strptr("anything"))
	require.NoError(t, err)
	assert.True(t, d.Granted)
}

func TestResolveProtectedNoPassword(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	r := NewResolver(stubSource{projects: map[string]model.Project{
		"tok": {ID: 7, PasswordHash: &hash},
	}})

	d, err := r.Resolve(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, ReasonPasswordRequired, d.Reason)
	// the project must not leak on a denial
	assert.Zero(t, d.Project.ID)
}

func TestResolveProtectedWrongPassword(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	r := NewResolver(stubSource{projects: map[string]model.Project{
		"tok": {ID: 7, PasswordHash: &hash},
	}})

	d, err := r.Resolve(context.Background(), "tok", strptr("letmein"))
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, ReasonIncorrectPassword, d.Reason)
}

func TestResolveProtectedCorrectPassword(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	r := NewResolver(stubSource{projects: map[string]model.Project{
		"tok": {ID: 7, PasswordHash: &hash},
	}})

	d, err := r.Resolve(context.Background(), "tok", strptr("hunter2"))
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, ReasonOK, d.Reason)
	assert.Equal(t, uint64(7), d.Project.ID)
}

func TestResolveEmptyPasswordIsNotMissing(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	r := NewResolver(stubSource{projects: map[string]model.Project{
		"tok": {ID: 7, PasswordHash: &hash},
	}})

	// an explicitly supplied empty string is a wrong guess, not a prompt
	d, err := r.Resolve(context.Background(), "tok", strptr(""))
	require.NoError(t, err)
	assert.Equal(t, ReasonIncorrectPassword, d.Reason)
}

func TestResolveInfrastructureError(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")
	r := NewResolver(stubSource{err: boom})

	_, err := r.Resolve(context.Background(), "tok", nil)
	assert.ErrorIs(t, err, boom)
}
