package inference

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"example.com/workoutanalysis/internal/domain"
	"example.com/workoutanalysis/internal/observability"
)

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
	backoffMultiplier     = 2.0
)

// Policy bounds each provider call. MaxRetries counts attempts after the first.
type Policy struct {
	Provider       string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type policyCompleter struct {
	next   Completer
	policy Policy
	logger *slog.Logger
}

// WithPolicy wraps next with a per-attempt timeout and retries for transient failures.
func WithPolicy(next Completer, p Policy, logger *slog.Logger) Completer {
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaultInitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultMaxBackoff
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &policyCompleter{next: next, policy: p, logger: logger}
}

func (c *policyCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	var lastErr *domain.InferenceError

	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", asInferenceError(err)
		}

		raw, err := c.attempt(ctx, system, user)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !err.Retryable() || attempt == c.policy.MaxRetries {
			break
		}

		wait := time.Duration(float64(c.policy.InitialBackoff) * math.Pow(backoffMultiplier, float64(attempt)))
		if wait > c.policy.MaxBackoff {
			wait = c.policy.MaxBackoff
		}
		c.logger.Debug("retrying inference",
			slog.String("provider", c.policy.Provider),
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", asInferenceError(ctx.Err())
		}
	}
	return "", lastErr
}

func (c *policyCompleter) attempt(ctx context.Context, system, user string) (string, *domain.InferenceError) {
	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.next.Complete(ctx, system, user)
	elapsed := time.Since(start)
	if err == nil {
		observability.RecordInferenceAttempt(c.policy.Provider, "ok", elapsed)
		return raw, nil
	}

	ierr := asInferenceError(err)
	if ierr.Kind == domain.KindUpstream && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ierr.Kind = domain.KindTimeout
	}
	observability.RecordInferenceAttempt(c.policy.Provider, string(ierr.Kind), elapsed)
	return "", ierr
}

func asInferenceError(err error) *domain.InferenceError {
	var ierr *domain.InferenceError
	if errors.As(err, &ierr) {
		return ierr
	}
	kind := domain.KindUpstream
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.KindTimeout
	}
	return &domain.InferenceError{Kind: kind, Message: err.Error(), Err: err}
}
