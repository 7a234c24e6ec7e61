package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer. Services wrap these
// with fmt.Errorf("...: %w", ...) and handlers map them with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")

	// ErrInconsistent marks a failed compensation: a write succeeded, the
	// follow-up failed, and the rollback failed too. Stores are now out of
	// sync and need out-of-band reconciliation. Never downgrade this one.
	ErrInconsistent = errors.New("data inconsistency")
)
