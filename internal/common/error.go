// Package common defines shared constants, sentinel errors and small helpers
// used by the server and client layers. Callers should use errors.Is to match
// the sentinels; StatusError values unwrap to them.
package common

import (
	"errors"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Identifier could not be parsed (malformed user id).
	ErrorInvalidIdentifier = errors.New("invalid identifier")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorValidation         = errors.New("validation error")

	// Session lifecycle errors.
	ErrorSessionExpired = errors.New("session expired")
)

// StatusError attaches a client-facing message and an HTTP status to one of
// the sentinel errors above.
type StatusError struct {
	Err     error
	Message string
	Status  int
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError wraps kind with msg and status.
func NewStatusError(kind error, msg string, status int) *StatusError {
	return &StatusError{Err: kind, Message: msg, Status: status}
}

// HTTPStatus reports the status a boundary layer should answer with for err.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var se *StatusError
	if errors.As(err, &se) && se.Status != 0 {
		return se.Status
	}

	switch {
	case errors.Is(err, ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrorInvalidIdentifier),
		errors.Is(err, ErrorValidation),
		errors.Is(err, ErrorInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrorUnauthorized), errors.Is(err, ErrorSessionExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorKinds lists the sentinels in match order with their wire names.
var errorKinds = []struct {
	name string
	err  error
}{
	{"already_exists", ErrorAlreadyExists},
	{"not_found", ErrorNotFound},
	{"invalid_identifier", ErrorInvalidIdentifier},
	{"invalid_credentials", ErrorInvalidCredentials},
	{"validation", ErrorValidation},
	{"unauthorized", ErrorUnauthorized},
	{"session_expired", ErrorSessionExpired},
	{"internal", ErrorInternal},
}

// KindName returns the wire name of the sentinel err unwraps to, or
// "internal" when it matches none.
func KindName(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// KindByName is the inverse of KindName. Unknown names yield nil.
func KindByName(name string) error {
	for _, k := range errorKinds {
		if k.name == name {
			return k.err
		}
	}
	return nil
}
