// Package retry applies an exponential backoff policy to external calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Policy configures the backoff between attempts.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// MaxAttempts bounds the number of calls; 0 retries until the context ends.
	MaxAttempts int
}

// DefaultPolicy retries forever: 100ms doubling up to 30s between attempts.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
	}
}

// Retrier runs operations under a Policy.
type Retrier struct {
	policy    Policy
	logger    *zap.Logger
	counter   *prometheus.CounterVec
	permanent []func(error) bool
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithCounter increments counter{operation} on every retry.
func WithCounter(counter *prometheus.CounterVec) Option {
	return func(r *Retrier) { r.counter = counter }
}

// WithPermanent stops retrying errors matched by isPermanent.
func WithPermanent(isPermanent func(error) bool) Option {
	return func(r *Retrier) { r.permanent = append(r.permanent, isPermanent) }
}

// New creates a Retrier.
func New(policy Policy, logger *zap.Logger, opts ...Option) *Retrier {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Retrier{policy: policy, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls fn until it succeeds, returns a permanent error, the attempt budget
// runs out or ctx is done. op names the call in logs and metrics.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return err
		}
		if ctx.Err() != nil || r.isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		r.logger.Warn("retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
		if r.counter != nil {
			r.counter.WithLabelValues(op).Inc()
		}
	}

	if err := backoff.RetryNotify(operation, r.backOff(ctx), notify); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Retrier) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.Multiplier = r.policy.Multiplier
	b.MaxElapsedTime = 0

	var bo backoff.BackOff = b
	if r.policy.MaxAttempts > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(r.policy.MaxAttempts-1))
	}
	return backoff.WithContext(bo, ctx)
}

func (r *Retrier) isPermanent(err error) bool {
	for _, fn := range r.permanent {
		if fn(err) {
			return true
		}
	}
	return false
}
