package services

import (
	"errors"
	"fmt"
)

// ConfigurationError covers missing or invalid credentials and unsupported providers.
type ConfigurationError struct {
	Message string
	Field   string
}

func (e *ConfigurationError) Error() string { return e.Message }

// TransportError wraps a network or HTTP failure talking to an external service.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InvalidResponseError means the external call succeeded but returned content
// that does not parse or does not match the expected shape. Raw keeps the payload.
type InvalidResponseError struct {
	Message string
	Raw     string
	Err     error
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage backend failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return e.Err }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

// Error codes used in API responses and events.
const (
	CodeConfiguration   = "CONFIGURATION_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeTransport       = "TRANSPORT_ERROR"
	CodePersistence     = "PERSISTENCE_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorCode maps err to its API error code.
func ErrorCode(err error) string {
	var (
		cfgErr       *ConfigurationError
		validErr     *ValidationError
		invalidErr   *InvalidResponseError
		transportErr *TransportError
		persistErr   *PersistenceError
		notFoundErr  *NotFoundError
		unauthErr    *UnauthorizedError
	)
	switch {
	case errors.As(err, &cfgErr):
		return CodeConfiguration
	case errors.As(err, &validErr):
		return CodeValidation
	case errors.As(err, &invalidErr):
		return CodeInvalidResponse
	case errors.As(err, &transportErr):
		return CodeTransport
	case errors.As(err, &persistErr):
		return CodePersistence
	case errors.As(err, &notFoundErr):
		return CodeNotFound
	case errors.As(err, &unauthErr):
		return CodeUnauthorized
	}
	return CodeInternal
}
