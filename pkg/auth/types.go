package auth

import "time"

// Status is the lifecycle state of a principal account.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBanned   Status = "banned"
)

// Principal is a full account record as persisted by the store. It carries
// the credential hash and must never cross the service boundary; external
// callers only ever see Projection or Profile.
type Principal struct {
	ID           int64
	Username     string
	PasswordHash string
	Phone        *string
	FullName     *string
	BankCode     *string
	BankAccount  *string
	Balance      string
	Status       Status
	ReferralCode string
	ReferrerID   *int64

	SessionToken      *string
	SessionDevice     *string
	SessionUpdatedAt  *time.Time
	SessionKickReason *string

	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// CreatePrincipalParams holds the fields written when a new account is
// created. Referral linkage is set here, once, and is immutable afterward.
type CreatePrincipalParams struct {
	Username     string
	PasswordHash string
	Phone        *string
	FullName     *string
	BankCode     *string
	BankAccount  *string
	Status       Status
	ReferralCode string
	ReferrerID   *int64
}

// ProfileUpdate carries a partial profile mutation. Nil fields are left
// unchanged. Credentials, status, session state, and referral linkage are
// deliberately absent; no profile update can touch them.
type ProfileUpdate struct {
	Phone       *string
	FullName    *string
	BankCode    *string
	BankAccount *string
}

// Projection is the subset of principal fields safe for external exposure
// after login or registration.
type Projection struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Phone    *string `json:"phone"`
	Balance  string  `json:"balance"`
}

// Profile is the richer read-only view returned by CurrentProfile.
// It excludes the credential hash and all session fields.
type Profile struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Phone        *string    `json:"phone"`
	FullName     *string    `json:"full_name"`
	BankCode     *string    `json:"bank_code"`
	BankName     *string    `json:"bank_name"`
	BankAccount  *string    `json:"bank_account"`
	Balance      string     `json:"balance"`
	ReferralCode string     `json:"referral_code"`
	Status       Status     `json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TokenPair is an access/refresh token issuance.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginParams are the credentials presented on login.
type LoginParams struct {
	Username string
	Password string
	Device   *string
}

// RegisterParams are the fields accepted at registration. The password
// confirmation is validated at the HTTP boundary but re-checked here since
// the engine's invariants rely on it.
type RegisterParams struct {
	Username        string
	Password        string
	ConfirmPassword string
	Phone           *string
	FullName        *string
	BankCode        *string
	BankAccount     *string
	ReferralCode    *string
	Device          *string
}

// AuthResult is the successful outcome of login or registration.
type AuthResult struct {
	Principal Projection
	Tokens    TokenPair
}
