package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("too many requests")

	// Provider errors never leave the service layer; they select a canned reply.
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrProviderUnavailable   = errors.New("provider unavailable")
)

// ConflictError represents a uniqueness violation on a named field.
// Duplicate registrations are reported as 400, not 409, to match the public API.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (user, chat)
	Field        string // Conflicting field (username, email)
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusBadRequest
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
