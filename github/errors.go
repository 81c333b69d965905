package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrMissingToken indicates the client was built without a bearer token
	ErrMissingToken = errors.New("github token is required")
	// ErrUnauthorized indicates the token is invalid or lacks scopes
	ErrUnauthorized = errors.New("unauthorized: invalid token or insufficient scopes")
	// ErrInvalidLogin indicates an empty or malformed account login
	ErrInvalidLogin = errors.New("invalid account login")
)

// APIError represents a GitHub API error
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("github API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrUnauthorized for 401 responses
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether GitHub refused the call for rate limiting.
// GitHub uses both 403 and 429 for primary and secondary limits.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusForbidden
}
