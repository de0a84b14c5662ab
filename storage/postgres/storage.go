// Package postgres implements auth.Storage on a pgx connection pool. It maps
// pgx.ErrNoRows to auth.ErrPrincipalNotFound, unique violations on insert to
// the matching typed error, and every other database fault to an error
// wrapping auth.ErrStoreUnavailable.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siamwallet/authcore/pkg/auth"
	"github.com/siamwallet/authcore/pkg/pg"
	"github.com/siamwallet/authcore/pkg/session"
)

// Constraint names from the users migration. Used to disambiguate which
// field a unique violation belongs to.
const (
	constraintUsername     = "users_username_key"
	constraintPhone        = "users_phone_key"
	constraintReferralCode = "users_referral_code_key"
)

// Storage is the PostgreSQL-backed principal store.
type Storage struct {
	pool *pgxpool.Pool
}

// New creates a Storage backed by the given pool.
func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

const principalColumns = `id, username, password_hash, phone, full_name,
	bank_code, bank_account, balance::text, status, referral_code, referrer_id,
	session_token, session_device, session_updated_at, session_kick_reason,
	last_login_at, created_at`

func (s *Storage) scanPrincipal(row interface{ Scan(dest ...any) error }) (*auth.Principal, error) {
	var p auth.Principal
	err := row.Scan(
		&p.ID, &p.Username, &p.PasswordHash, &p.Phone, &p.FullName,
		&p.BankCode, &p.BankAccount, &p.Balance, &p.Status, &p.ReferralCode, &p.ReferrerID,
		&p.SessionToken, &p.SessionDevice, &p.SessionUpdatedAt, &p.SessionKickReason,
		&p.LastLoginAt, &p.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, errors.Join(auth.ErrStoreUnavailable, err)
	}
	return &p, nil
}

func (s *Storage) findBy(ctx context.Context, column string, value any) (*auth.Principal, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, principalColumns, column)
	return s.scanPrincipal(s.pool.QueryRow(ctx, query, value))
}

// FindByID returns the principal with the given ID.
func (s *Storage) FindByID(ctx context.Context, id int64) (*auth.Principal, error) {
	return s.findBy(ctx, "id", id)
}

// FindByUsername returns the principal with the given username.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	return s.findBy(ctx, "username", username)
}

// FindByPhone returns the principal with the given phone number.
func (s *Storage) FindByPhone(ctx context.Context, phone string) (*auth.Principal, error) {
	return s.findBy(ctx, "phone", phone)
}

// FindByReferralCode returns the principal owning the given referral code.
func (s *Storage) FindByReferralCode(ctx context.Context, code string) (*auth.Principal, error) {
	return s.findBy(ctx, "referral_code", code)
}

// Create inserts a new principal and returns the stored record. Unique
// violations surface as auth.ErrUsernameTaken or auth.ErrPhoneTaken so the
// engine's non-transactional pre-checks stay safe under races.
func (s *Storage) Create(ctx context.Context, params auth.CreatePrincipalParams) (*auth.Principal, error) {
	query := fmt.Sprintf(`INSERT INTO users (
		username, password_hash, phone, full_name, bank_code, bank_account,
		status, referral_code, referrer_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING %s`, principalColumns)

	row := s.pool.QueryRow(ctx, query,
		params.Username, params.PasswordHash, params.Phone, params.FullName,
		params.BankCode, params.BankAccount, params.Status, params.ReferralCode,
		params.ReferrerID,
	)

	var p auth.Principal
	err := row.Scan(
		&p.ID, &p.Username, &p.PasswordHash, &p.Phone, &p.FullName,
		&p.BankCode, &p.BankAccount, &p.Balance, &p.Status, &p.ReferralCode, &p.ReferrerID,
		&p.SessionToken, &p.SessionDevice, &p.SessionUpdatedAt, &p.SessionKickReason,
		&p.LastLoginAt, &p.CreatedAt,
	)
	if err != nil {
		switch pg.UniqueConstraint(err) {
		case constraintUsername:
			return nil, auth.ErrUsernameTaken
		case constraintPhone:
			return nil, auth.ErrPhoneTaken
		case constraintReferralCode:
			// Losing this race is vanishingly rare; the engine retries the
			// whole registration would be overkill, so report it as a store
			// fault and let the client retry.
			return nil, errors.Join(auth.ErrStoreUnavailable, err)
		}
		return nil, errors.Join(auth.ErrStoreUnavailable, err)
	}
	return &p, nil
}

// TouchLastLogin records the login timestamp. A missing principal is
// reported as auth.ErrPrincipalNotFound.
func (s *Storage) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return errors.Join(auth.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrPrincipalNotFound
	}
	return nil
}

// UpdateProfile applies a partial update to contact and bank fields. Nil
// fields keep their stored value. A phone uniqueness violation maps to
// auth.ErrPhoneTaken.
func (s *Storage) UpdateProfile(ctx context.Context, id int64, update auth.ProfileUpdate) error {
	query := `UPDATE users SET
		phone = COALESCE($2, phone),
		full_name = COALESCE($3, full_name),
		bank_code = COALESCE($4, bank_code),
		bank_account = COALESCE($5, bank_account)
	WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		id, update.Phone, update.FullName, update.BankCode, update.BankAccount,
	)
	if err != nil {
		if pg.UniqueConstraint(err) == constraintPhone {
			return auth.ErrPhoneTaken
		}
		return errors.Join(auth.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrPrincipalNotFound
	}
	return nil
}

// Profile returns the read-only projection without credential or session
// fields.
func (s *Storage) Profile(ctx context.Context, id int64) (*auth.Profile, error) {
	query := `SELECT id, username, phone, full_name, bank_code, bank_account,
		balance::text, referral_code, status, last_login_at, created_at
	FROM users WHERE id = $1`

	var p auth.Profile
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.Phone, &p.FullName, &p.BankCode, &p.BankAccount,
		&p.Balance, &p.ReferralCode, &p.Status, &p.LastLoginAt, &p.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, errors.Join(auth.ErrStoreUnavailable, err)
	}
	return &p, nil
}

// UpdateSession overwrites the session descriptor for the principal. Last
// writer wins; there is no optimistic versioning on these columns.
func (s *Storage) UpdateSession(ctx context.Context, principalID int64, update session.Update) error {
	query := `UPDATE users SET
		session_token = $2,
		session_device = $3,
		session_updated_at = $4,
		session_kick_reason = $5
	WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		principalID, update.Token, update.Device, update.UpdatedAt, update.KickReason,
	)
	if err != nil {
		return errors.Join(auth.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrPrincipalNotFound
	}
	return nil
}

// ClearSession nulls the session token and device. Clearing a principal
// that has no session is a no-op.
func (s *Storage) ClearSession(ctx context.Context, principalID int64) error {
	query := `UPDATE users SET
		session_token = NULL,
		session_device = NULL,
		session_updated_at = NOW()
	WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, principalID)
	if err != nil {
		return errors.Join(auth.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrPrincipalNotFound
	}
	return nil
}

var _ auth.Storage = (*Storage)(nil)
