// Package ratelimiter throttles repeated authentication attempts. A Limiter
// counts attempts per key (typically the client IP) within a fixed window;
// once the attempt budget is spent, further requests are denied until the
// window resets. Counters live in a pluggable Store so limits hold across
// instances when backed by Redis.
package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config defines the attempt budget for one window.
type Config struct {
	Attempts int           `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	Window   time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"15m"`
}

func (c Config) validate() error {
	if c.Attempts <= 0 {
		return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidConfig, c.Attempts)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}

// Result contains the outcome of a rate limit check.
type Result struct {
	Limit     int       // Attempt budget per window
	Remaining int       // Attempts left; negative means denied
	ResetAt   time.Time // When the window resets
}

// Allowed reports whether the attempt fit the budget.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next attempt, 0 if allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Store counts attempts per key within a window.
type Store interface {
	// Incr records an attempt and returns the total recorded in the current
	// window together with the window's reset time.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)

	// Reset clears the counter for the given key.
	Reset(ctx context.Context, key string) error
}

// Limiter applies a fixed-window attempt budget backed by a Store.
type Limiter struct {
	store  Store
	config Config
}

// New creates a Limiter, validating the configuration eagerly.
func New(store Store, config Config) (*Limiter, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Limiter{store: store, config: config}, nil
}

// Allow records one attempt for the key and reports whether it fit the budget.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.config.Window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Limit:     l.config.Attempts,
		Remaining: l.config.Attempts - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for the key, typically after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
