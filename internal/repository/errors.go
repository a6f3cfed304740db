// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrPlanLimit signals that a gated insert
// was rejected because it would exceed the free-tier limit.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrPlanLimit is returned by the transactional count-and-insert when a
// free or cancelled account already holds its quota of active projects.
// Handlers should translate this into an HTTP 409 response.
var ErrPlanLimit = errors.New("active project limit reached")
