package auth

import "errors"

// Business-rule failures returned as typed, non-exceptional results.
// The HTTP boundary maps each to a status code and user-facing message.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// deliberately indistinguishable to resist account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAccountSuspended    = errors.New("account suspended")
	ErrAccountNotActivated = errors.New("account not activated")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrPhoneTaken          = errors.New("phone number already taken")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrPrincipalUnavailable is returned on refresh when the principal no
	// longer exists or is no longer active.
	ErrPrincipalUnavailable = errors.New("principal unavailable")
)

// Store-boundary errors.
var (
	// ErrPrincipalNotFound is the store's not-found sentinel; lookups return
	// it instead of a nil record.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrStoreUnavailable wraps transient datastore faults, including
	// deadline expiry. Callers may retry; the engine never swallows it.
	ErrStoreUnavailable = errors.New("store unavailable")
)
