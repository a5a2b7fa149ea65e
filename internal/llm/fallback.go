package llm

import (
	"context"
	"errors"
	"sort"
	"time"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/metrics"
)

// DefaultAttemptTimeout bounds a single provider call.
const DefaultAttemptTimeout = 30 * time.Second

// Chain calls providers one at a time in fixed order (Primary, Secondary,
// Tertiary) and returns the first success.
type Chain struct {
	providers      []Provider
	attemptTimeout time.Duration
}

// NewChain creates a fallback chain. Providers are ordered by ID regardless of
// argument order; nil providers are skipped so unconfigured upstreams can be left out.
// A non-positive attemptTimeout disables the per-attempt timeout.
func NewChain(attemptTimeout time.Duration, providers ...Provider) *Chain {
	ordered := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID() < ordered[j].ID()
	})
	return &Chain{
		providers:      ordered,
		attemptTimeout: attemptTimeout,
	}
}

// Providers returns the configured providers in call order.
func (c *Chain) Providers() []ProviderID {
	ids := make([]ProviderID, 0, len(c.providers))
	for _, p := range c.providers {
		ids = append(ids, p.ID())
	}
	return ids
}

// GenerateWithFallback tries each provider in order. Any provider failure moves
// on to the next provider. A result whose JSON failed to parse is a success at
// the transport level and is returned as is. When every provider fails, or the
// caller's context ends, the returned error matches ErrExhausted.
func (c *Chain) GenerateWithFallback(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	logger := contextutil.LoggerFromContext(ctx).With("tag", req.Tag)
	exhausted := &ExhaustedError{Tag: req.Tag}

	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			exhausted.Failures = append(exhausted.Failures, err)
			break
		}

		result, err := c.attempt(ctx, p, req)
		if err == nil {
			if i > 0 {
				logger.InfoContext(ctx, "fallback provider succeeded", "provider", p.ID().String())
			}
			if result.ParseErr != nil {
				logger.WarnContext(ctx, "provider returned unparsable JSON", "provider", p.ID().String(), "error", result.ParseErr)
			}
			return result, nil
		}
		exhausted.Failures = append(exhausted.Failures, err)

		kind := KindOf(err)
		if i+1 < len(c.providers) {
			metrics.RecordFallback(req.Tag, p.ID().String(), kind.String())
			logger.WarnContext(ctx, "provider failed, falling back",
				"provider", p.ID().String(),
				"next", c.providers[i+1].ID().String(),
				"kind", kind.String(),
				"error", err,
			)
		} else {
			logger.ErrorContext(ctx, "last provider failed", "provider", p.ID().String(), "kind", kind.String(), "error", err)
		}
	}

	metrics.RecordExhausted(req.Tag)
	return CompletionResult{}, exhausted
}

// attempt runs one provider call under the per-attempt timeout.
func (c *Chain) attempt(ctx context.Context, p Provider, req CompletionRequest) (CompletionResult, error) {
	attemptCtx := ctx
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := p.Complete(attemptCtx, req)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordAttempt(p.ID().String(), KindOf(err).String(), elapsed)
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = &ProviderError{Provider: p.ID(), Kind: Fatal, Err: err}
		}
		return CompletionResult{}, err
	}

	outcome := "ok"
	if result.ParseErr != nil {
		outcome = "unparsable"
	}
	metrics.RecordAttempt(p.ID().String(), outcome, elapsed)
	return result, nil
}
