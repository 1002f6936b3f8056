package domain

import "fmt"

// Error types for consistent error handling across the gateway.

// ErrNotFound indicates an unknown service name or resource.
type ErrNotFound struct {
	Resource string
	Name     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
}

// ErrExternalService indicates a failure in a backend service call.
type ErrExternalService struct {
	Service string
	Status  int
	Err     error
}

func (e *ErrExternalService) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("external service error [%s]: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open for a backend.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing, malformed, expired or
// badly-signed service token.
type ErrUnauthorized struct {
	Reason  TokenFailure
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates a valid token that lacks the required scope.
type ErrForbidden struct {
	Scope string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: missing scope %q", e.Scope)
}

// TokenFailure classifies why token validation failed.
type TokenFailure string

const (
	TokenExpired          TokenFailure = "expired"
	TokenInvalidSignature TokenFailure = "invalid_signature"
	TokenMalformed        TokenFailure = "malformed"
)
