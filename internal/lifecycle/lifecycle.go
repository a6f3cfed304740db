// Package lifecycle holds the project status state machine and the
// per-milestone status cycle. Everything here is a pure function over
// status strings; persistence and authorization live elsewhere.
package lifecycle

import "github.com/qdo10/loopin/internal/model"

// Project status values.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Milestone status values.
const (
	MilestoneNotStarted = "not_started"
	MilestoneInProgress = "in_progress"
	MilestoneComplete   = "complete"
)

// ValidStatus reports whether s is a known project status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusArchived
}

// CanTransition reports whether a project may move from one status to
// another. Allowed moves: active->completed, completed->active (reopen),
// active|completed->archived, archived->active (restore). No transition
// deletes data; deletion is a separate destructive action.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusActive:
		return to == StatusCompleted || to == StatusArchived
	case StatusCompleted:
		return to == StatusActive || to == StatusArchived
	case StatusArchived:
		return to == StatusActive
	}
	return false
}

// NextMilestoneStatus advances a milestone one step around the cycle
// not_started -> in_progress -> complete -> not_started. Repeated toggles
// wrap around indefinitely; there is no terminal state. Unknown input is
// treated as not_started.
func NextMilestoneStatus(s string) string {
	switch s {
	case MilestoneNotStarted:
		return MilestoneInProgress
	case MilestoneInProgress:
		return MilestoneComplete
	case MilestoneComplete:
		return MilestoneNotStarted
	}
	return MilestoneInProgress
}

// Progress returns the percentage of completed milestones, rounded down.
// An empty timeline counts as zero progress.
func Progress(milestones []model.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Status == MilestoneComplete {
			done++
		}
	}
	return done * 100 / len(milestones)
}

// DuplicateName derives the name for a cloned project.
func DuplicateName(name string) string {
	return name + " (Copy)"
}
