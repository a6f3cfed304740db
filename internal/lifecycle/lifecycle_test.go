package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qdo10/loopin/internal/model"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusArchived, true},
		{StatusCompleted, StatusActive, true},
		{StatusCompleted, StatusArchived, true},
		{StatusArchived, StatusActive, true},
		{StatusArchived, StatusCompleted, false},
		{StatusActive, StatusActive, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusArchived, StatusArchived, false},
		{"bogus", StatusActive, false},
		{StatusActive, "bogus", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNextMilestoneStatusCycles(t *testing.T) {
	t.Parallel()

	s := MilestoneNotStarted
	s = NextMilestoneStatus(s)
	assert.Equal(t, MilestoneInProgress, s)
	s = NextMilestoneStatus(s)
	assert.Equal(t, MilestoneComplete, s)
	s = NextMilestoneStatus(s)
	assert.Equal(t, MilestoneNotStarted, s)

	// a full extra lap lands back where it started
	for i := 0; i < 3; i++ {
		s = NextMilestoneStatus(s)
	}
	assert.Equal(t, MilestoneNotStarted, s)
}

func TestNextMilestoneStatusUnknownInput(t *testing.T) {
	t.Parallel()
	assert.Equal(t, MilestoneInProgress, NextMilestoneStatus("garbage"))
	assert.Equal(t, MilestoneInProgress, NextMilestoneStatus(""))
}

func TestProgress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Progress(nil))
	assert.Equal(t, 0, Progress([]model.Milestone{}))

	ms := []model.Milestone{
		{Status: MilestoneComplete},
		{Status: MilestoneInProgress},
		{Status: MilestoneNotStarted},
	}
	assert.Equal(t, 33, Progress(ms))

	ms[1].Status = MilestoneComplete
	ms[2].Status = MilestoneComplete
	assert.Equal(t, 100, Progress(ms))
}

func TestValidStatus(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidStatus(StatusActive))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.True(t, ValidStatus(StatusArchived))
	assert.False(t, ValidStatus("deleted"))
	assert.False(t, ValidStatus(""))
}

func TestDuplicateName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Site Redesign (Copy)", DuplicateName("Site Redesign"))
}
