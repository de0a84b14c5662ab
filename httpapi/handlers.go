// Package httpapi exposes the authentication engine over HTTP: JSON
// endpoints under /api/auth with a uniform success/error envelope,
// bearer-or-cookie authentication, and per-IP throttling of credential
// attempts.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/siamwallet/authcore/pkg/auth"
	"github.com/siamwallet/authcore/pkg/logger"
	"github.com/siamwallet/authcore/pkg/ratelimiter"
)

// deviceHashHeader carries an opaque client device fingerprint recorded on
// the session.
const deviceHashHeader = "X-Device-Hash"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	phonePattern    = regexp.MustCompile(`^0[0-9]{9}$`)
)

// AuthService is the engine surface the handlers depend on.
type AuthService interface {
	Login(ctx context.Context, params auth.LoginParams) (*auth.AuthResult, error)
	Register(ctx context.Context, params auth.RegisterParams) (*auth.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, principalID int64) error
	CurrentProfile(ctx context.Context, principalID int64) (*auth.Profile, error)
	UpdateProfile(ctx context.Context, principalID int64, update auth.ProfileUpdate) (*auth.Profile, error)
}

// Handler serves the authentication endpoints.
type Handler struct {
	svc     AuthService
	limiter *ratelimiter.Limiter
	log     *slog.Logger
}

// Option configures a Handler during construction.
type Option func(*Handler)

// WithLogger sets a custom logger for the handler.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		h.log = log
	}
}

// WithRateLimiter enables per-IP throttling of login and register attempts.
// Without it the RateLimit middleware passes everything through.
func WithRateLimiter(limiter *ratelimiter.Limiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

// NewHandler creates the HTTP handler set for the auth service.
func NewHandler(svc AuthService, opts ...Option) *Handler {
	h := &Handler{
		svc: svc,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Phone           *string `json:"phone"`
	FullName        *string `json:"fullName"`
	BankCode        *string `json:"bankCode"`
	BankAccount     *string `json:"bankAccount"`
	ReferralCode    *string `json:"referralCode"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Phone       *string `json:"phone"`
	FullName    *string `json:"fullName"`
	BankCode    *string `json:"bankCode"`
	BankAccount *string `json:"bankAccount"`
}

// authPayload is the data object shared by login and register responses.
type authPayload struct {
	User   auth.Projection `json:"user"`
	Tokens auth.TokenPair  `json:"tokens"`
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(dst)
}

func deviceHash(r *http.Request) *string {
	if hash := r.Header.Get(deviceHashHeader); hash != "" {
		return &hash
	}
	return nil
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	if details := validateLogin(req); details != nil {
		respondValidation(w, details)
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginParams{
		Username: req.Username,
		Password: req.Password,
		Device:   deviceHash(r),
	})
	if err != nil {
		respondServiceError(w, r, h.log, err, "เกิดข้อผิดพลาดในการเข้าสู่ระบบ")
		return
	}

	// A successful login does not count against the attempt budget.
	if h.limiter != nil {
		if err := h.limiter.Reset(r.Context(), rateLimitKey(r)); err != nil {
			h.log.WarnContext(r.Context(), "failed to reset rate limit counter",
				logger.Error(err), logger.Component("httpapi"))
		}
	}

	respondSuccess(w, http.StatusOK, authPayload{
		User:   result.Principal,
		Tokens: result.Tokens,
	}, "เข้าสู่ระบบสำเร็จ")
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	if details := validateRegister(req); details != nil {
		respondValidation(w, details)
		return
	}

	result, err := h.svc.Register(r.Context(), auth.RegisterParams{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		FullName:        req.FullName,
		BankCode:        req.BankCode,
		BankAccount:     req.BankAccount,
		ReferralCode:    req.ReferralCode,
		Device:          deviceHash(r),
	})
	if err != nil {
		respondServiceError(w, r, h.log, err, "เกิดข้อผิดพลาดในการสมัครสมาชิก")
		return
	}

	respondSuccess(w, http.StatusCreated, authPayload{
		User:   result.Principal,
		Tokens: result.Tokens,
	}, "สมัครสมาชิกสำเร็จ")
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respondValidation(w, []map[string]string{
			{"field": "refreshToken", "message": "Refresh token is required"},
		})
		return
	}

	tokens, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, r, h.log, err, "ไม่สามารถ refresh token ได้")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]auth.TokenPair{"tokens": tokens}, "Token refreshed")
}

// Logout handles POST /api/auth/logout. Requires authentication.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeUnaut, "กรุณาเข้าสู่ระบบ")
		return
	}

	if err := h.svc.Logout(r.Context(), identity.PrincipalID); err != nil {
		respondServiceError(w, r, h.log, err, "เกิดข้อผิดพลาด")
		return
	}

	respondSuccess(w, http.StatusOK, nil, "ออกจากระบบสำเร็จ")
}

// Me handles GET /api/auth/me. Requires authentication.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeUnaut, "กรุณาเข้าสู่ระบบ")
		return
	}

	profile, err := h.svc.CurrentProfile(r.Context(), identity.PrincipalID)
	if err != nil {
		respondServiceError(w, r, h.log, err, "เกิดข้อผิดพลาด")
		return
	}

	respondSuccess(w, http.StatusOK, profile, "Success")
}

// UpdateMe handles PUT /api/auth/me. Requires authentication.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeUnaut, "กรุณาเข้าสู่ระบบ")
		return
	}

	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	if details := validateUpdateProfile(req); details != nil {
		respondValidation(w, details)
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), identity.PrincipalID, auth.ProfileUpdate{
		Phone:       req.Phone,
		FullName:    req.FullName,
		BankCode:    req.BankCode,
		BankAccount: req.BankAccount,
	})
	if err != nil {
		respondServiceError(w, r, h.log, err, "เกิดข้อผิดพลาด")
		return
	}

	respondSuccess(w, http.StatusOK, profile, "อัปเดตข้อมูลสำเร็จ")
}
