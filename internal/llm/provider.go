package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks english-assistant/internal/llm Provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Provider adapts a CompletionRequest to one upstream completion API.
type Provider interface {
	// ID returns the provider's position in the fallback chain.
	ID() ProviderID
	// Complete sends the request and returns the normalized result.
	// Failures are returned as *ProviderError.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// maxErrorBody bounds how much of an error body is kept in a ProviderError.
const maxErrorBody = 2048

// upstreamError is the error envelope shared by the OpenAI-compatible APIs and Gemini.
type upstreamError struct {
	Error *struct {
		Message string          `json:"message"`
		Status  string          `json:"status"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// statusError classifies a non-2xx upstream response.
func statusError(id ProviderID, resp *http.Response) *ProviderError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))

	var env upstreamError
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		msg = env.Error.Message
	}

	pe := &ProviderError{
		Provider:   id,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || mentionsRateLimit(msg):
		pe.Kind = RateLimited
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusRequestTimeout:
		pe.Kind = Transient
	default:
		pe.Kind = Fatal
	}
	return pe
}

// transportError classifies a failure to get any response at all.
func transportError(id ProviderID, err error) *ProviderError {
	return &ProviderError{
		Provider: id,
		Kind:     Transient,
		Message:  "failed to send request",
		Err:      err,
	}
}

// emptyResponse is returned when the upstream answered 2xx without usable text.
func emptyResponse(id ProviderID) *ProviderError {
	return &ProviderError{
		Provider: id,
		Kind:     Fatal,
		Message:  "no valid response",
	}
}

// bodyError classifies an error object embedded in a 2xx body.
func bodyError(id ProviderID, status int, message string) *ProviderError {
	kind := Fatal
	if mentionsRateLimit(message) {
		kind = RateLimited
	}
	return &ProviderError{
		Provider:   id,
		Kind:       kind,
		StatusCode: status,
		Message:    message,
	}
}

func mentionsRateLimit(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "too many requests")
}

// decodeError wraps a JSON decoding failure of a 2xx body.
func decodeError(id ProviderID, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return transportError(id, err)
	}
	return &ProviderError{
		Provider: id,
		Kind:     Fatal,
		Message:  "failed to decode response",
		Err:      fmt.Errorf("decode: %w", err),
	}
}
