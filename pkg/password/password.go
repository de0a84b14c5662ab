// Package password hashes and verifies user passwords with bcrypt.
//
// Hashing is deliberately slow; both operations run on a background goroutine
// so a caller-supplied deadline is honored even while bcrypt is busy.
// Verification cost does not depend on where a mismatch occurs.
package password

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
// Matches the platform-wide salt rounds setting.
const DefaultCost = 12

var (
	// ErrMismatch is returned by Verify when the plaintext does not match the digest.
	ErrMismatch = errors.New("password: mismatch")

	// ErrInvalidCost is returned when the configured cost is outside bcrypt's range.
	ErrInvalidCost = errors.New("password: invalid cost factor")
)

// Config holds hasher settings populated from the environment.
type Config struct {
	Cost int `env:"BCRYPT_COST" envDefault:"12"`
}

// Hasher produces and checks salted bcrypt digests with a fixed work factor.
type Hasher struct {
	cost int
}

// Option configures a Hasher during construction.
type Option func(*Hasher)

// WithCost overrides the bcrypt work factor.
func WithCost(cost int) Option {
	return func(h *Hasher) {
		h.cost = cost
	}
}

// New creates a Hasher. The cost is validated eagerly so misconfiguration
// fails at startup instead of on the first login.
func New(opts ...Option) (*Hasher, error) {
	h := &Hasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}

	if h.cost < bcrypt.MinCost || h.cost > bcrypt.MaxCost {
		return nil, ErrInvalidCost
	}
	return h, nil
}

// Hash returns a salted bcrypt digest of the plaintext.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	type result struct {
		digest []byte
		err    error
	}

	ch := make(chan result, 1)
	go func() {
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		ch <- result{digest: digest, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return string(res.digest), nil
	}
}

// Verify checks the plaintext against a stored digest. It returns ErrMismatch
// for a wrong password and other errors only for malformed digests or a
// cancelled context.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) error {
	ch := make(chan error, 1)
	go func() {
		ch <- bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-ch:
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
}

// Cost reports the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}
