package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// TokenLength is the length in characters of an opaque session token.
// Tokens are hex-encoded, so this corresponds to 32 bytes of entropy.
const TokenLength = 64

// Update describes the session fields written on establish. Nil pointer
// fields are persisted as NULL, clearing the previous value.
type Update struct {
	Token      string
	Device     *string
	UpdatedAt  time.Time
	KickReason *string
}

// Store persists the session descriptor embedded in a principal record.
type Store interface {
	UpdateSession(ctx context.Context, principalID int64, update Update) error
	ClearSession(ctx context.Context, principalID int64) error
}

// Manager enforces the single-active-session invariant: establishing a
// session overwrites whatever token was on record, so at most one session
// token per principal is ever authoritative. Two concurrent establish calls
// both succeed and the last write wins; no locking is involved.
type Manager struct {
	store Store
	log   *slog.Logger
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Establish issues a fresh opaque session token for the principal and
// persists it, superseding any prior session. The pending kick reason is
// cleared and the update time stamped. The previous token silently stops
// being authoritative for session-scoped checks; bearer tokens minted for it
// remain cryptographically valid until expiry.
func (m *Manager) Establish(ctx context.Context, principalID int64, device *string) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	update := Update{
		Token:     token,
		Device:    device,
		UpdatedAt: time.Now(),
	}
	if err := m.store.UpdateSession(ctx, principalID, update); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	m.log.DebugContext(ctx, "session established", slog.Int64("principal_id", principalID))
	return token, nil
}

// Terminate clears the session token and device, used on explicit logout.
// Terminating a principal with no session is a no-op, not an error.
func (m *Manager) Terminate(ctx context.Context, principalID int64) error {
	if err := m.store.ClearSession(ctx, principalID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	m.log.DebugContext(ctx, "session terminated", slog.Int64("principal_id", principalID))
	return nil
}

// GenerateToken returns a cryptographically random hex token of TokenLength
// characters.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Matches reports whether a presented token equals the token on record,
// comparing in constant time. Used by flows that cross-check the live
// session token.
func Matches(recorded, presented string) bool {
	if len(recorded) != len(presented) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(recorded), []byte(presented)) == 1
}
