package domain

import "errors"

// Sentinel errors for classifying compute API failures.
// The AWS adapter wraps these so callers can branch on error kinds with
// errors.Is instead of inspecting provider error text.
//
//	return fmt.Errorf("failed to describe key pair: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials or permissions.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as a
	// key pair or security group name that is already taken.
	ErrConflict = errors.New("conflict")

	// ErrTimeout indicates a wait ran past its deadline before the
	// resource reached the expected state.
	ErrTimeout = errors.New("timed out")
)
