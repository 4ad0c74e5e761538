package member

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("member not found")

// ValidationError is a field-level rejection. Raised locally before any backend call,
// or surfaced by the backend as a constraint violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// BackendError is a transport or query failure. Message is human readable and safe to show.
type BackendError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "backend error"
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError wraps err unless it already is a classified member error.
func NewBackendError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return err
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return err
	}
	return &BackendError{Op: op, Message: err.Error(), Err: err}
}

// IsValidationCode reports whether a Postgres SQLSTATE rejects the submitted values
// (integrity violations and malformed input) rather than signalling a backend fault.
func IsValidationCode(code string) bool {
	switch code {
	case "23502", "23503", "23505", "23514", "22001", "22003", "22007", "22008", "22P02":
		return true
	}
	return false
}

func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBackend(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}
