package domain

import "errors"

var (
	// ErrNotFound is returned when a single-resource lookup gets a 404.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthenticated is returned when the identity service rejects the
	// session's credentials.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when the authenticated role does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when an upstream service rejects a payload.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream is returned for any other non-2xx upstream response.
	ErrUpstream = errors.New("upstream service error")

	// ErrSessionClosed is returned when an operation is attempted on a
	// session that has already been torn down.
	ErrSessionClosed = errors.New("session closed")
)
