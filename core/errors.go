package core

import "errors"

// Gateway error taxonomy. Handlers map these onto HTTP statuses; they are
// surfaced to callers and never retried internally.
var (
	// ErrUnauthorized means no authenticated user was presented.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNoWorkspace means the user has no resolvable workspace membership.
	ErrNoWorkspace = errors.New("no workspace membership")

	// ErrInvalidRecord means a record returned by the backend failed
	// schema validation and was withheld from the caller.
	ErrInvalidRecord = errors.New("record failed validation")
)
