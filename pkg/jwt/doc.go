// Package jwt signs and verifies the compact bearer tokens used by the
// platform. Tokens come in two kinds: short-lived access tokens and
// longer-lived refresh tokens, each signed with its own HMAC-SHA256 secret
// and carrying an independently configured lifetime.
//
// The implementation is deliberately limited to the HS256 algorithm. A Codec
// wraps both secrets; callers select the kind at issue and verify time:
//
//	codec, err := jwt.NewCodec(cfg)
//	if err != nil {
//		// handle error
//	}
//
//	token, err := codec.Issue(jwt.Identity{
//		PrincipalID: 42,
//		Username:    "alice01",
//		Type:        jwt.TypeUser,
//	}, jwt.KindAccess)
//
//	claims, err := codec.Verify(token, jwt.KindAccess)
//
// Verification is failure-tolerant: malformed, expired, mis-signed, and
// cross-kind tokens are reported through sentinel errors (ErrInvalidToken,
// ErrExpiredToken, ErrInvalidSignature) that callers branch on with
// errors.Is. A refresh token checked as an access token fails signature
// verification because the kinds share no secret.
//
// Lifetimes are configured as compact duration strings ("15m", "7d");
// unparseable values fall back to 15 minutes. See ParseLifetime.
package jwt
