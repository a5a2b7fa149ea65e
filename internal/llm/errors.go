package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is matched by the error returned when every provider in the chain failed.
var ErrExhausted = errors.New("all providers failed")

// FailureKind classifies a provider failure.
type FailureKind int

const (
	// RateLimited means the upstream throttled the request (HTTP 429 or a rate-limit message).
	RateLimited FailureKind = iota + 1
	// Transient covers 5xx responses, timeouts and network errors.
	Transient
	// Fatal covers malformed or empty completion bodies and non-retryable client errors.
	Fatal
)

func (k FailureKind) String() string {
	switch k {
	case RateLimited:
		return "rate_limited"
	case Transient:
		return "transient"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ProviderError is returned by provider adapters.
type ProviderError struct {
	Provider   ProviderID
	Kind       FailureKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s provider %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err. Errors that are not provider errors are Fatal.
func KindOf(err error) FailureKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Fatal
}

// ParseError is returned when sanitized text is not valid JSON.
// Text carries the sanitized text, never the raw upstream output.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExhaustedError lists the failure of every provider that was attempted, in order.
type ExhaustedError struct {
	Tag      string
	Failures []error
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	if len(parts) == 0 {
		return fmt.Sprintf("[%s] %s: no providers configured", e.Tag, ErrExhausted)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Tag, ErrExhausted, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() []error {
	return e.Failures
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}
