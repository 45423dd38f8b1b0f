// Package resilient wraps an embedding service with exponential back-off
// retries and optional request pacing.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Service retries failed embedding calls of the wrapped service.
type Service struct {
	inner   driven.EmbeddingService
	policy  domain.RetrySettings
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Service.
type Option func(*Service)

// WithSleep replaces the wait between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		s.sleep = sleep
	}
}

// New wraps inner with the retry policy. A zero MaxAttempts means one attempt.
func New(inner driven.EmbeddingService, policy domain.RetrySettings, opts ...Option) *Service {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	s := &Service{
		inner:  inner,
		policy: policy,
		sleep:  sleepContext,
	}
	if policy.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(policy.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backoff returns the wait after the given failed attempt (1-based):
// Multiplier * 2^(attempt-1), clamped to [Min, Max].
func Backoff(policy domain.RetrySettings, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := policy.Multiplier
	for i := 1; i < attempt; i++ {
		wait *= 2
		if policy.Max > 0 && wait >= policy.Max {
			break
		}
	}
	if wait < policy.Min {
		wait = policy.Min
	}
	if policy.Max > 0 && wait > policy.Max {
		wait = policy.Max
	}
	return wait
}

// Embed retries the wrapped Embed.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.do(ctx, func() error {
		var err error
		out, err = s.inner.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch retries the wrapped EmbedBatch as a unit.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := s.do(ctx, func() error {
		var err error
		out, err = s.inner.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

func (s *Service) do(ctx context.Context, call func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		lastErr = call()
		if lastErr == nil {
			return nil
		}
		if !retryable(ctx, lastErr) {
			return lastErr
		}
		if attempt == s.policy.MaxAttempts {
			break
		}

		wait := Backoff(s.policy, attempt)
		logger.Warn("embedding attempt %d/%d failed: %v; retrying in %s",
			attempt, s.policy.MaxAttempts, lastErr, wait)
		if err := s.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTransient, lastErr)
}

// retryable rejects cancellation and caller mistakes; everything else,
// including unclassified network failures, is retried.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Dimensions returns the wrapped service's vector size.
func (s *Service) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *Service) ModelName() string { return s.inner.ModelName() }

// Ping is not retried.
func (s *Service) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *Service) Close() error { return s.inner.Close() }
