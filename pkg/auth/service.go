package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/siamwallet/authcore/pkg/bank"
	"github.com/siamwallet/authcore/pkg/jwt"
	"github.com/siamwallet/authcore/pkg/logger"
	"github.com/siamwallet/authcore/pkg/password"
	"github.com/siamwallet/authcore/pkg/session"
)

// Service orchestrates login, registration, token refresh, and logout.
// It holds no mutable state of its own; every decision is re-derived from
// the store on each call.
type Service struct {
	storage  Storage
	hasher   *password.Hasher
	codec    *jwt.Codec
	sessions *session.Manager
	log      *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the authentication engine from its collaborators.
func NewService(storage Storage, hasher *password.Hasher, codec *jwt.Codec, sessions *session.Manager, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		hasher:   hasher,
		codec:    codec,
		sessions: sessions,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates a principal by username and password, establishes a
// new session (superseding any prior one), and issues a token pair.
//
// An unknown username and a wrong password both fail with
// ErrInvalidCredentials so callers cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	principal, err := s.storage.FindByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	switch principal.Status {
	case StatusBanned:
		return nil, ErrAccountSuspended
	case StatusInactive:
		return nil, ErrAccountNotActivated
	}

	if err := s.hasher.Verify(ctx, params.Password, principal.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		// Deadline expiry and malformed digests are infrastructure faults,
		// never a silent success.
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if _, err := s.sessions.Establish(ctx, principal.ID, params.Device); err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	tokens, err := s.issueTokens(principal)
	if err != nil {
		return nil, err
	}

	if err := s.storage.TouchLastLogin(ctx, principal.ID, time.Now()); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user login",
		logger.PrincipalID(principal.ID),
		logger.Username(principal.Username),
		logger.Component("auth"),
	)

	return &AuthResult{
		Principal: project(principal),
		Tokens:    tokens,
	}, nil
}

// Register creates a new principal with status active, links the referrer
// when the supplied referral code resolves (an unknown code is silently
// ignored), establishes a session, and issues a token pair.
//
// The username and phone pre-checks are not transactional with the insert;
// under a concurrent registration race the store's own uniqueness violation
// surfaces as the same typed errors.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if params.Password != params.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	_, err := s.storage.FindByUsername(ctx, params.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, ErrPrincipalNotFound) {
		return nil, err
	}

	if params.Phone != nil && *params.Phone != "" {
		_, err := s.storage.FindByPhone(ctx, *params.Phone)
		if err == nil {
			return nil, ErrPhoneTaken
		}
		if !errors.Is(err, ErrPrincipalNotFound) {
			return nil, err
		}
	}

	var referrerID *int64
	if params.ReferralCode != nil && *params.ReferralCode != "" {
		referrer, err := s.storage.FindByReferralCode(ctx, *params.ReferralCode)
		switch {
		case err == nil:
			referrerID = &referrer.ID
		case errors.Is(err, ErrPrincipalNotFound):
			// Best-effort attribution: an unresolvable code is not an error.
		default:
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(ctx, params.Password)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	referralCode, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	principal, err := s.storage.Create(ctx, CreatePrincipalParams{
		Username:     params.Username,
		PasswordHash: hash,
		Phone:        params.Phone,
		FullName:     params.FullName,
		BankCode:     normalizeBankCode(params.BankCode),
		BankAccount:  params.BankAccount,
		Status:       StatusActive,
		ReferralCode: referralCode,
		ReferrerID:   referrerID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Establish(ctx, principal.ID, params.Device); err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	tokens, err := s.issueTokens(principal)
	if err != nil {
		return nil, err
	}

	if err := s.storage.TouchLastLogin(ctx, principal.ID, time.Now()); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "new user registered",
		logger.PrincipalID(principal.ID),
		logger.Username(principal.Username),
		logger.Component("auth"),
	)

	return &AuthResult{
		Principal: project(principal),
		Tokens:    tokens,
	}, nil
}

// Refresh rotates a token pair. The refresh token must verify as
// refresh-kind and carry the end-user type tag, and the principal must still
// exist and be active. Refresh does not consult the session token on record;
// a refresh token issued before a logout still mints new access tokens until
// it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, jwt.KindRefresh)
	if err != nil || claims.Type != jwt.TypeUser {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	principal, err := s.storage.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return TokenPair{}, ErrPrincipalUnavailable
		}
		return TokenPair{}, err
	}
	if principal.Status != StatusActive {
		return TokenPair{}, ErrPrincipalUnavailable
	}

	return s.issueTokens(principal)
}

// Logout clears the server-side session state. Issued bearer tokens remain
// verifiable until natural expiry; no revocation list exists.
func (s *Service) Logout(ctx context.Context, principalID int64) error {
	if err := s.sessions.Terminate(ctx, principalID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user logout",
		logger.PrincipalID(principalID),
		logger.Component("auth"),
	)
	return nil
}

// UpdateProfile applies a partial update to the principal's contact and bank
// fields and returns the refreshed profile. A recognized bank code is
// canonicalized before persisting. Credentials, status, and referral linkage
// are out of reach here.
func (s *Service) UpdateProfile(ctx context.Context, principalID int64, update ProfileUpdate) (*Profile, error) {
	update.BankCode = normalizeBankCode(update.BankCode)

	if err := s.storage.UpdateProfile(ctx, principalID, update); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "profile updated",
		logger.PrincipalID(principalID),
		logger.Component("auth"),
	)

	return s.CurrentProfile(ctx, principalID)
}

// CurrentProfile returns the safe read-only view of a principal.
func (s *Service) CurrentProfile(ctx context.Context, principalID int64) (*Profile, error) {
	profile, err := s.storage.Profile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if profile.BankCode != nil {
		if code, ok := bank.Normalize(*profile.BankCode); ok {
			name := bank.Name(code)
			profile.BankName = &name
		}
	}
	return profile, nil
}

// issueTokens mints the access/refresh pair for a principal.
func (s *Service) issueTokens(principal *Principal) (TokenPair, error) {
	identity := jwt.Identity{
		PrincipalID: principal.ID,
		Username:    principal.Username,
		Type:        jwt.TypeUser,
	}

	access, err := s.codec.Issue(identity, jwt.KindAccess)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Issue(identity, jwt.KindRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func project(p *Principal) Projection {
	return Projection{
		ID:       p.ID,
		Username: p.Username,
		Phone:    p.Phone,
		Balance:  p.Balance,
	}
}

// normalizeBankCode canonicalizes a supplied bank code when recognized and
// passes unknown values through unchanged for manual review.
func normalizeBankCode(raw *string) *string {
	if raw == nil || *raw == "" {
		return raw
	}
	if code, ok := bank.Normalize(*raw); ok {
		canonical := string(code)
		return &canonical
	}
	return raw
}
