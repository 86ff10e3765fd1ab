package openstack

import (
	"errors"
	"fmt"
	"net/http"
)

// Readiness failures returned by WaitForServer.
var (
	ErrServerNotReady = errors.New("server did not become ACTIVE in time")
	ErrServerFailed   = errors.New("server entered ERROR state")
)

// APIError is an unexpected HTTP status from the control plane. Body holds
// the raw payload so callers can surface the control plane's own message.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// RejectionError is a 400 response to a create call, e.g. an invalid CIDR.
type RejectionError struct {
	Kind Kind
	*APIError
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s creation rejected: %s", e.Kind, e.APIError.Error())
}

func (e *RejectionError) Unwrap() error { return e.APIError }

// AuthError is a token exchange that did not yield a token.
type AuthError struct {
	StatusCode int
	Body       []byte
	Reason     string
}

func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Body)
}

// TransportError is a request that never produced a usable response: the
// endpoint was unreachable or the body could not be decoded.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRejection checks if an error is a creation rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// IsAuthError checks if an error comes from the token exchange.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsTransport checks if an error happened below the HTTP status level.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks for a 401, which is how an expired token surfaces.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	return 0
}

// Payload returns the raw control-plane response body carried by err.
func Payload(err error) []byte {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Body
	}
	return nil
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
