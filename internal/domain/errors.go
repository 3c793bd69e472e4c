package domain

import (
	"errors"
	"fmt"
)

// The server's failure taxonomy is a closed set. ConfigurationError is fatal
// at startup and never reaches the transport; the other three are converted
// to a JSON-RPC error at the dispatch boundary by Normalize.

// ConfigurationError reports a startup credential or config problem.
// The message names the missing field and every resolution path for it.
type ConfigurationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports a caller-correctable argument problem.
// It is raised before any remote call is issued.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}

// NewValidationError creates a ValidationError for a specific argument field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RemoteAPIError carries the upstream HTTP status and body verbatim.
// Remote failures are never retried and never suppressed; the caller sees
// exactly what the Bitbucket API returned.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("Bitbucket API error (status %d): %s", e.StatusCode, e.Body)
}

// Normalize converts any failure from the handler stack into a JSON-RPC
// error. Already-normalized *Error values pass through unchanged; no raw
// error ever escapes to the transport.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &Error{Code: InternalError, Message: valErr.Error()}
	}

	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		return &Error{Code: InternalError, Message: apiErr.Error()}
	}

	return &Error{Code: InternalError, Message: "internal error: " + err.Error()}
}
