package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/siamwallet/authcore/pkg/clientip"
	"github.com/siamwallet/authcore/pkg/jwt"
	"github.com/siamwallet/authcore/pkg/logger"
)

// accessTokenCookie lets browser clients authenticate without an
// Authorization header.
const accessTokenCookie = "accessToken"

type identityCtxKey struct{}

// extractToken takes the bearer token from the Authorization header, falling
// back to the access token cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}

	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// identityFromContext returns the authenticated identity placed by
// Authenticate.
func identityFromContext(ctx context.Context) (jwt.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(jwt.Identity)
	return identity, ok
}

// Authenticate verifies the access token on the request and stores the
// identity in the context. Tokens of the wrong kind, admin-typed tokens, and
// expired tokens are all rejected with 401.
func Authenticate(codec *jwt.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, codeUnaut, "กรุณาเข้าสู่ระบบ")
				return
			}

			claims, err := codec.Verify(token, jwt.KindAccess)
			if err != nil || claims.Type != jwt.TypeUser {
				respondError(w, http.StatusUnauthorized, codeUnaut, "Token ไม่ถูกต้องหรือหมดอายุ")
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey{}, claims.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit throttles requests per client IP. On a limiter store failure it
// logs and lets the request through; throttling is protection, not a
// correctness gate, and a Redis outage must not lock everyone out.
func (h *Handler) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		result, err := h.limiter.Allow(r.Context(), rateLimitKey(r))
		if err != nil {
			h.log.WarnContext(r.Context(), "rate limiter unavailable, failing open",
				logger.Error(err), logger.Component("httpapi"))
			next.ServeHTTP(w, r)
			return
		}

		if !result.Allowed() {
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter().Seconds()))
			respondError(w, http.StatusTooManyRequests, codeRateLimit,
				"พยายามเข้าสู่ระบบมากเกินไป กรุณารอ 15 นาที")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func rateLimitKey(r *http.Request) string {
	return "auth:" + clientip.GetIP(r)
}
