// Package apperrors defines the domain errors this service distinguishes at
// its boundaries. Anything not covered here (store or broker unavailability)
// is an infrastructure failure and propagates untouched.
package apperrors

import "errors"

var (
	// ErrPolicyNotFound means no UserACL row exists for the requested user.
	// This is different from a policy with an empty allow-list, which is a
	// valid policy that simply yields no results.
	ErrPolicyNotFound = errors.New("user acl not found")

	// ErrUnauthorized is returned when the caller fails the authentication
	// boundary check.
	ErrUnauthorized = errors.New("authentication required")
)

// ValidationError reports required audit event fields that are missing or
// empty. It is raised before any persistence attempt.
type ValidationError struct {
	Fields error
}

func (e *ValidationError) Error() string { return "invalid audit event: " + e.Fields.Error() }

func (e *ValidationError) Unwrap() error { return e.Fields }

// MalformedEventError means a message-channel payload could not be parsed
// into an audit event: bad JSON, a required key absent, or a required value
// that is not a string. The event is dropped, never retried here.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string { return "malformed audit event: " + e.Reason }
