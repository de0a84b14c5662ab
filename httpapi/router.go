package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/siamwallet/authcore/pkg/httpserver"
	"github.com/siamwallet/authcore/pkg/jwt"
	"github.com/siamwallet/authcore/pkg/requestid"
)

// NewRouter assembles the full HTTP surface: the auth endpoints under
// /api/auth, a liveness probe at /health, and a readiness probe at
// /health/ready running the given dependency checks.
func NewRouter(h *Handler, codec *jwt.Codec, log *slog.Logger, readiness ...func(context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, readiness...))

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.RateLimit)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(codec))
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Put("/me", h.UpdateMe)
		})
	})

	return r
}
