package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/model"
)

type stubCounter struct {
	n   int
	err error
}

func (s stubCounter) CountActiveByOwner(context.Context, uint64) (int, error) {
	return s.n, s.err
}

func TestCanCreateProjectFreeUnderLimit(t *testing.T) {
	t.Parallel()
	g := NewGate(stubCounter{n: 0})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Free})
	require.NoError(t, err)
}

func TestCanCreateProjectFreeAtLimit(t *testing.T) {
	t.Parallel()
	g := NewGate(stubCounter{n: FreeActiveLimit})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Free})
	assert.ErrorIs(t, err, ErrProjectLimit)
}

func TestCanCreateProjectCancelledTreatedAsFree(t *testing.T) {
	t.Parallel()
	g := NewGate(stubCounter{n: FreeActiveLimit})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Cancelled})
	assert.ErrorIs(t, err, ErrProjectLimit)
}

func TestCanCreateProjectAfterArchivingFreesSlot(t *testing.T) {
	t.Parallel()
	// only active projects count toward the limit, so archiving or
	// completing the existing project drops the count back to zero
	g := NewGate(stubCounter{n: 0})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Free})
	require.NoError(t, err)
}

func TestCanCreateProjectProSkipsCount(t *testing.T) {
	t.Parallel()
	// the counter would error if consulted
	g := NewGate(stubCounter{err: errors.New("db down")})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Pro})
	require.NoError(t, err)
}

func TestCanCreateProjectCounterError(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	g := NewGate(stubCounter{err: boom})
	err := g.CanCreateProject(context.Background(), model.User{ID: 1, Plan: Free})
	assert.ErrorIs(t, err, boom)
}

func TestPaidFeatureGates(t *testing.T) {
	t.Parallel()
	g := NewGate(stubCounter{})

	for _, p := range []string{Free, Cancelled} {
		u := model.User{Plan: p}
		assert.ErrorIs(t, g.CanUsePasswords(u), ErrPlanRequired, "plan %s", p)
		assert.ErrorIs(t, g.CanUseBranding(u), ErrPlanRequired, "plan %s", p)
	}

	pro := model.User{Plan: Pro}
	assert.NoError(t, g.CanUsePasswords(pro))
	assert.NoError(t, g.CanUseBranding(pro))
}

func TestIsPro(t *testing.T) {
	t.Parallel()
	assert.True(t, IsPro(Pro))
	assert.False(t, IsPro(Free))
	assert.False(t, IsPro(Cancelled))
	assert.False(t, IsPro(""))
}
