package services

import (
	"errors"
	"net/http"
)

// Error is a typed service failure with an HTTP-status-like severity.
// Handlers translate it via StatusOf; anything else surfaces as 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrNotFound reports a missing entity (404)
func ErrNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// ErrConflict reports a state conflict such as insufficient stock,
// a duplicate review, or an invalid status transition (409)
func ErrConflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// ErrForbidden reports a blocked user or disallowed action (403)
func ErrForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// ErrBadRequest reports invalid input that passed schema validation (400)
func ErrBadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// ErrUnauthorized reports a failed authentication attempt (401)
func ErrUnauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// StatusOf maps an error to an HTTP status code
func StatusOf(err error) int {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Status
	}
	return http.StatusInternalServerError
}
