package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JWT header constants required by RFC 7519
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256" // HMAC-SHA256 chosen for security/performance balance
)

// Header represents the JWT header as defined in RFC 7515
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Kind selects which signing secret and lifetime a token is issued or
// verified with. Access and refresh tokens are signed with distinct secrets
// so possession of one never grants use as the other.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// Config holds codec settings populated from the environment. Lifetimes are
// duration strings such as "15m" or "7d"; see ParseLifetime.
type Config struct {
	AccessSecret    string `env:"JWT_SECRET,required"`
	RefreshSecret   string `env:"JWT_REFRESH_SECRET,required"`
	AccessLifetime  string `env:"JWT_EXPIRES_IN" envDefault:"15m"`
	RefreshLifetime string `env:"JWT_REFRESH_EXPIRES_IN" envDefault:"7d"`
}

// Codec signs and verifies bearer tokens using HMAC-SHA256.
// Secrets are kept in memory only and should be cryptographically secure.
type Codec struct {
	accessKey       []byte
	refreshKey      []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

// NewCodec creates a token codec from the provided configuration.
// Both secrets are required and must differ, otherwise a leaked access token
// would verify as a refresh token.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSameSigningKeys
	}

	return &Codec{
		accessKey:       []byte(cfg.AccessSecret),
		refreshKey:      []byte(cfg.RefreshSecret),
		accessLifetime:  ParseLifetime(cfg.AccessLifetime),
		refreshLifetime: ParseLifetime(cfg.RefreshLifetime),
	}, nil
}

// Issue creates a signed token of the given kind carrying the identity.
// The iat and exp claims are stamped here; the caller never sets them.
func (c *Codec) Issue(identity Identity, kind Kind) (string, error) {
	if identity.Username == "" {
		return "", ErrMissingClaims
	}

	now := time.Now()
	claims := Claims{
		Identity: identity,
		IssuedAt: now.Unix(),
		ExpiresAt: now.Add(c.lifetime(kind)).Unix(),
	}

	header := Header{
		Type:      HeaderType,
		Algorithm: HeaderAlgorithm,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + c.sign(payload, kind), nil
}

// Verify validates a token of the given kind and returns its claims.
// Malformed, mis-signed, cross-kind, and expired tokens all yield sentinel
// errors; Verify never panics on attacker-controlled input.
func (c *Codec) Verify(tokenString string, kind Kind) (Claims, error) {
	var claims Claims

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return claims, ErrInvalidToken
	}

	// Verify signature using constant-time comparison to prevent timing attacks.
	payload := parts[0] + "." + parts[1]
	expected := c.sign(payload, kind)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return claims, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return claims, ErrInvalidToken
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return claims, ErrInvalidToken
	}

	// Reject unexpected algorithms to prevent algorithm confusion attacks.
	if header.Algorithm != HeaderAlgorithm {
		return claims, ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return claims, ErrInvalidToken
	}

	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return claims, ErrInvalidToken
	}

	if err := claims.Valid(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// Lifetime reports the configured lifetime for the given token kind.
func (c *Codec) Lifetime(kind Kind) time.Duration {
	return c.lifetime(kind)
}

func (c *Codec) lifetime(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshLifetime
	}
	return c.accessLifetime
}

func (c *Codec) key(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshKey
	}
	return c.accessKey
}

// sign creates an HMAC-SHA256 signature for the given payload.
// Returns base64url-encoded signature as required by RFC 7515.
func (c *Codec) sign(payload string, kind Kind) string {
	h := hmac.New(sha256.New, c.key(kind))
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64URLEncode encodes data using base64url encoding without padding.
// Padding removal is required by RFC 7515 for JWT tokens.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLDecode decodes base64url-encoded data without padding.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
