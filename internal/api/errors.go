package api

import (
	"errors"
	"fmt"
)

// Common library API errors.
var (
	// ErrBadRequest is returned when the server rejects the payload.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized is returned when credentials or the token are rejected.
	ErrUnauthorized = errors.New("unauthorized: sign in again")
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a username or email is already taken.
	ErrConflict = errors.New("conflict: already registered")
	// ErrUnavailable is returned for server failures and while the circuit
	// breaker is open.
	ErrUnavailable = errors.New("library service unavailable")
	// ErrNotSignedIn is returned by calls that need a token when none is set.
	ErrNotSignedIn = errors.New("not signed in")
)

// Error is a non-2xx response. It unwraps to one of the sentinel errors
// above and carries the server's own explanation when it sent one.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (HTTP %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%v (HTTP %d): %s", e.kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.kind }

// errorBody is the error envelope the backend uses. Different endpoints
// fill different keys.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (b errorBody) text() string {
	switch {
	case b.Error != "":
		return b.Error
	case b.Message != "":
		return b.Message
	default:
		return b.Detail
	}
}
