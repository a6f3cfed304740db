// Package access decides whether a portal viewer may see a project. The
// resolver is a stateless rules engine: it persists no "verified" state and
// must be re-invoked whenever the password gate guards a request. Callers
// that want to avoid re-prompting issue a short-lived signed portal token
// after a granted resolution.
package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/utils"
)

// Reason explains a resolution outcome.
type Reason string

const (
	// ReasonOK means access is granted.
	ReasonOK Reason = "ok"
	// ReasonNotFound covers unknown tokens and non-active projects alike:
	// archived and completed portals are deliberately indistinguishable
	// from nonexistent ones to viewers.
	ReasonNotFound Reason = "not_found"
	// ReasonPasswordRequired means the project is password-protected and
	// no password was supplied.
	ReasonPasswordRequired Reason = "password_required"
	// ReasonIncorrectPassword means the supplied password did not verify.
	ReasonIncorrectPassword Reason = "incorrect_password"
)

// Decision is the outcome of a resolution. Project is populated only when
// access is granted.
type Decision struct {
	Granted bool
	Reason  Reason
	Project model.Project
}

// ProjectSource looks up an active project by its share token. It must
// return sql.ErrNoRows both for unknown tokens and for projects whose
// status is not active.
type ProjectSource interface {
	ActiveByShareToken(ctx context.Context, token string) (model.Project, error)
}

// Resolver applies the portal access rules.
type Resolver struct {
	Projects ProjectSource
}

func NewResolver(projects ProjectSource) *Resolver { return &Resolver{Projects: projects} }

// Resolve decides whether the holder of token may view the project,
// optionally verifying a supplied plaintext password.
//
// Rules: a project without a password hash grants unconditionally. A
// protected project requires the supplied password to verify against the
// stored bcrypt hash; a nil password yields password_required and a
// mismatch yields incorrect_password. The returned error is non-nil only
// for infrastructure failures, never for denials.
func (r *Resolver) Resolve(ctx context.Context, token string, password *string) (Decision, error) {
	p, err := r.Projects.ActiveByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Decision{Reason: ReasonNotFound}, nil
		}
		return Decision{}, err
	}
	if p.PasswordHash == nil {
		return Decision{Granted: true, Reason: ReasonOK, Project: p}, nil
	}
	if password == nil {
		return Decision{Reason: ReasonPasswordRequired}, nil
	}
	if !utils.VerifyPassword(*p.PasswordHash, *password) {
		return Decision{Reason: ReasonIncorrectPassword}, nil
	}
	return Decision{Granted: true, Reason: ReasonOK, Project: p}, nil
}
