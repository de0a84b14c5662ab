package auth

import (
	"context"
	"time"

	"github.com/siamwallet/authcore/pkg/session"
)

// Storage abstracts persistence of principal records. Implementations map
// their backend's not-found condition to ErrPrincipalNotFound, uniqueness
// violations on create to ErrUsernameTaken / ErrPhoneTaken, and any other
// fault to an error wrapping ErrStoreUnavailable. The credential hash never
// leaves this boundary except inside Principal for the engine's verify step.
//
// The interface embeds session.Store so the same implementation backs the
// session manager; session writes follow last-writer-wins semantics with no
// optimistic versioning.
type Storage interface {
	session.Store

	FindByID(ctx context.Context, id int64) (*Principal, error)
	FindByUsername(ctx context.Context, username string) (*Principal, error)
	FindByPhone(ctx context.Context, phone string) (*Principal, error)
	FindByReferralCode(ctx context.Context, code string) (*Principal, error)

	// Create inserts a new principal. The username pre-check in Register is
	// not transactional with this insert, so implementations must surface
	// the store's own uniqueness violation as a typed error rather than
	// crashing when the race loses.
	Create(ctx context.Context, params CreatePrincipalParams) (*Principal, error)

	TouchLastLogin(ctx context.Context, id int64, at time.Time) error

	// UpdateProfile applies a partial update to contact and bank fields.
	// A phone uniqueness violation surfaces as ErrPhoneTaken.
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error

	// Profile returns the read-only projection, excluding the credential
	// hash and session fields.
	Profile(ctx context.Context, id int64) (*Profile, error)
}
