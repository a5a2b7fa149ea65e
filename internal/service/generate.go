package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks english-assistant/internal/service Generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"english-assistant/internal/llm"
)

// DefaultRequestTimeout bounds one feature request across every provider attempt.
const DefaultRequestTimeout = 75 * time.Second

// Generator runs a completion request through the provider fallback chain.
// *llm.Chain implements it.
type Generator interface {
	GenerateWithFallback(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error)
}

// PostProcessor turns a parsed JSON completion into a typed domain value.
// A returned error means the payload did not have the expected shape.
type PostProcessor[T any] func(content any) (T, error)

// Generated is a post-processed completion.
type Generated[T any] struct {
	Value      T
	TokensUsed int
	Provider   llm.ProviderID
}

// complete runs req under the overall request deadline and maps chain
// failures to ErrUpstreamExhausted.
func complete(ctx context.Context, gen Generator, timeout time.Duration, req llm.CompletionRequest) (llm.CompletionResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := gen.GenerateWithFallback(ctx, req)
	if err != nil {
		return llm.CompletionResult{}, fmt.Errorf("%w: %w", ErrUpstreamExhausted, err)
	}
	return result, nil
}

// generateJSON runs a JSON-mode request and applies post to the parsed payload.
// Parse and shape failures come back as *ResponseParseError carrying the sanitized text.
func generateJSON[T any](ctx context.Context, gen Generator, timeout time.Duration, req llm.CompletionRequest, post PostProcessor[T]) (Generated[T], error) {
	req.JSONMode = true

	result, err := complete(ctx, gen, timeout, req)
	if err != nil {
		return Generated[T]{}, err
	}

	if result.ParseErr != nil {
		return Generated[T]{}, &ResponseParseError{Raw: result.ParseErr.Text, Err: result.ParseErr}
	}
	if !result.Parsed() {
		return Generated[T]{}, &ResponseParseError{Raw: result.Text, Err: errors.New("response is not JSON")}
	}

	value, err := post(result.Content)
	if err != nil {
		return Generated[T]{}, &ResponseParseError{Raw: result.Text, Err: err}
	}

	return Generated[T]{
		Value:      value,
		TokensUsed: result.TokensUsed,
		Provider:   result.Provider,
	}, nil
}

// reshape converts a generic JSON value into T by re-encoding it.
func reshape[T any](content any) (T, error) {
	var out T
	data, err := json.Marshal(content)
	if err != nil {
		return out, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unexpected payload shape: %w", err)
	}
	return out, nil
}

// Explanation is a field the model may emit either as a plain string or as a
// structured object of type T.
type Explanation[T any] struct {
	Text   string
	Detail *T
}

// MarshalJSON writes the object form when present, the string form otherwise.
func (e Explanation[T]) MarshalJSON() ([]byte, error) {
	if e.Detail != nil {
		return json.Marshal(e.Detail)
	}
	return json.Marshal(e.Text)
}

// UnmarshalJSON accepts a string, an object or null.
func (e *Explanation[T]) UnmarshalJSON(data []byte) error {
	*e = Explanation[T]{}
	trimmed := string(data)
	switch {
	case trimmed == "null":
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		return json.Unmarshal(data, &e.Text)
	default:
		var detail T
		if err := json.Unmarshal(data, &detail); err != nil {
			return fmt.Errorf("explanation must be a string or object: %w", err)
		}
		e.Detail = &detail
		return nil
	}
}
