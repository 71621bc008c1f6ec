package service

import "errors"

// Error classes surfaced to callers. Operations wrap these with context via
// fmt.Errorf("%w: ..."); the HTTP layer maps each class to a status code.
var (
	// ErrValidation marks malformed or missing input, rejected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks ownership and authorization failures.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks lookups of unknown documents or feedback items.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks operations illegal for the current stored status,
	// including lost compare-and-swap races on the status column.
	ErrConflict = errors.New("conflict")
)
