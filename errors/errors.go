// Package errors defines the error taxonomy shared by every layer.
//
// Kind sentinels (ErrValidation, ErrNotFound, ...) classify an outcome;
// specific sentinels wrap a kind with %w so callers can match either the
// precise cause or the whole family with errors.Is.
package errors

import "fmt"

// Kinds. Every expected, recoverable-by-caller outcome wraps one of these.
var (
	ErrValidation      = fmt.Errorf("invalid input")
	ErrNotFound        = fmt.Errorf("not found")
	ErrConflict        = fmt.Errorf("conflict")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrExternalService = fmt.Errorf("external service failure")
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidPassword    = fmt.Errorf("%w: password does not meet requirements", ErrValidation)

	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("%w: room", ErrNotFound)
	ErrMessageNotFound = fmt.Errorf("%w: message", ErrNotFound)

	ErrAlreadyMember = fmt.Errorf("%w: already a member of that room", ErrConflict)
	ErrNotMember     = fmt.Errorf("%w: not a member of that room", ErrUnauthorized)

	// ErrRoomCodeTaken is the per-attempt collision signal; the registry
	// retries on it. ErrRoomCodeExhausted is what callers see once the
	// retry budget is spent.
	ErrRoomCodeTaken     = fmt.Errorf("%w: room code already allocated", ErrConflict)
	ErrRoomCodeExhausted = fmt.Errorf("%w: room code allocation retries exhausted", ErrConflict)

	ErrClassifierUnavailable = fmt.Errorf("%w: content classifier unreachable", ErrExternalService)

	ErrTokenGeneration = fmt.Errorf("token generation failed")
)
