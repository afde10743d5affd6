// Package services defines the business logic for requests, tasks, chat,
// attachments, feedback, analytics, and surveys. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages and HTTP status codes is performed at the
// handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// visible to the current user.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller's role or ownership is
	// insufficient for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is the base error for malformed input (empty title,
	// out-of-range metric, non-4-digit PIN, oversized attachment). Specific
	// messages wrap it with %w so handlers can match with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a status value is outside the
	// accepted enum set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTooManyAttempts is returned on the PIN failure that trips the
	// lockout; subsequent attempts during the window get a BlockedError.
	ErrTooManyAttempts = errors.New("too many incorrect pin attempts")

	// ErrSurveyInactive is returned when submitting to a closed survey.
	ErrSurveyInactive = errors.New("survey is not active")

	// ErrDuplicateResponse is returned when a user submits a second
	// response to the same survey.
	ErrDuplicateResponse = errors.New("survey already answered")
)

// validationf wraps ErrValidation with a specific message.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// InvalidPinError reports an incorrect PIN that did not yet trip the lockout.
type InvalidPinError struct {
	// RemainingAttempts is how many failures are left before the block.
	RemainingAttempts int
}

// Error implements the error interface.
func (e *InvalidPinError) Error() string {
	return fmt.Sprintf("invalid pin, %d attempts remaining", e.RemainingAttempts)
}

// BlockedError reports that the (user, room) pair is inside a lockout window.
type BlockedError struct {
	// RetryAfterMinutes is the remaining block time, rounded up.
	RetryAfterMinutes int
}

// Error implements the error interface.
func (e *BlockedError) Error() string {
	return fmt.Sprintf("chat access blocked, try again in %d min", e.RetryAfterMinutes)
}
