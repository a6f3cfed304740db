// Package plan is the subscription gate: it decides whether a user may
// perform an owner-facing action under their current plan. The gate trusts
// the locally stored subscription status; it never talks to the billing
// provider itself.
package plan

import (
	"context"
	"errors"

	"github.com/qdo10/loopin/internal/model"
)

// Plan values stored in users.subscription_status. Cancelled accounts keep
// their data but are limited exactly like free accounts.
const (
	Free      = "free"
	Pro       = "pro"
	Cancelled = "cancelled"
)

// FreeActiveLimit is the number of concurrently active projects a
// free or cancelled account may hold.
const FreeActiveLimit = 1

// ErrPlanRequired is returned when a pro-only feature is requested on a
// free or cancelled plan. Handlers translate it into HTTP 403.
var ErrPlanRequired = errors.New("pro plan required")

// ErrProjectLimit is returned when creating a project would exceed the
// free-tier active-project limit. Handlers translate it into HTTP 409.
var ErrProjectLimit = errors.New("active project limit reached")

// ActiveCounter reports how many active-status projects a user owns. The
// count must be computed fresh at decision time; cached counters would let
// concurrent creates slip past the limit.
type ActiveCounter interface {
	CountActiveByOwner(ctx context.Context, userID uint64) (int, error)
}

// Gate evaluates plan rules. It is stateless; every decision re-reads
// whatever data it needs.
type Gate struct {
	Projects ActiveCounter
}

func NewGate(projects ActiveCounter) *Gate { return &Gate{Projects: projects} }

// IsPro reports whether the plan grants the paid feature set.
func IsPro(p string) bool { return p == Pro }

// CanCreateProject permits creation for pro users unconditionally and for
// free/cancelled users only while they own fewer than FreeActiveLimit
// active projects. Archived and completed projects do not count.
//
// The check here is advisory: the authoritative enforcement happens inside
// the store's transactional count-and-insert, which closes the window
// between two concurrent creates observing the same count.
func (g *Gate) CanCreateProject(ctx context.Context, u model.User) error {
	if IsPro(u.Plan) {
		return nil
	}
	n, err := g.Projects.CountActiveByOwner(ctx, u.ID)
	if err != nil {
		return err
	}
	if n >= FreeActiveLimit {
		return ErrProjectLimit
	}
	return nil
}

// CanUsePasswords permits enabling portal password protection. Rejections
// are explicit, never silent.
func (g *Gate) CanUsePasswords(u model.User) error {
	if !IsPro(u.Plan) {
		return ErrPlanRequired
	}
	return nil
}

// CanUseBranding permits custom branding (logo, brand color).
func (g *Gate) CanUseBranding(u model.User) error {
	if !IsPro(u.Plan) {
		return ErrPlanRequired
	}
	return nil
}
