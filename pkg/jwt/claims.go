package jwt

import "time"

// Principal type tags carried in the "type" claim. Administrative tokens are
// issued by back-office tooling and are never accepted on end-user routes.
const (
	TypeUser  = "user"
	TypeAdmin = "admin"
)

// Identity is the caller-supplied portion of the token payload.
type Identity struct {
	PrincipalID int64  `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role,omitempty"`
	Type        string `json:"type"`
}

// Claims is the full token payload: identity plus temporal claims.
// Temporal fields use Unix timestamps for consistent validation.
type Claims struct {
	Identity
	IssuedAt  int64 `json:"iat,omitempty"`
	ExpiresAt int64 `json:"exp,omitempty"`
}

// Valid validates the temporal claims against current time.
// A zero exp is treated as unset and is ignored.
func (c Claims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}
