package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrUpstreamExhausted is returned when no AI provider could serve the request.
	ErrUpstreamExhausted = errors.New("AI service is currently unavailable")
	// ErrConflict is returned when a write would duplicate an existing record.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned when the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldIssue describes one failed constraint.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a validation error with a field name.
// Details lists every failed field; Field and Message repeat the first one.
type ValidationError struct {
	Field   string
	Message string
	Details []FieldIssue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ResponseParseError is returned when a provider answered but its output did
// not match the expected JSON shape. Raw holds the sanitized text.
type ResponseParseError struct {
	Raw string
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("AI response could not be parsed: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
