// Package apperr defines the error taxonomy shared by repositories,
// services and controllers. Callers match with errors.Is; lower layers
// wrap with fmt.Errorf("...: %w", ...).
package apperr

import "errors"

var (
	// ErrValidation: malformed or missing input, recoverable by the caller.
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized: no verified identity on the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden: identity present but not allowed to act on this resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: the referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the operation is not valid for the entity's current
	// status, e.g. approving an article that is not PENDING.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict: uniqueness violation, e.g. duplicate username.
	ErrConflict = errors.New("conflict")
)
