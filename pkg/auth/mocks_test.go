package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/siamwallet/authcore/pkg/auth"
	"github.com/siamwallet/authcore/pkg/session"
)

// memoryStorage is an in-memory auth.Storage used by the engine tests.
// It mirrors the real store's behavior: not-found sentinels, uniqueness
// violations on create, and last-writer-wins session updates. Setting
// failWith makes every call fail, simulating an unavailable store.
type memoryStorage struct {
	mu         sync.Mutex
	nextID     int64
	principals map[int64]*auth.Principal
	failWith   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		nextID:     1,
		principals: make(map[int64]*auth.Principal),
	}
}

func (m *memoryStorage) seed(p auth.Principal) *auth.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	if p.Balance == "" {
		p.Balance = "0.00"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.principals[p.ID] = &p
	return clonePrincipal(&p)
}

func (m *memoryStorage) get(id int64) *auth.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clonePrincipal(m.principals[id])
}

func (m *memoryStorage) FindByID(_ context.Context, id int64) (*auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if p, ok := m.principals[id]; ok {
		return clonePrincipal(p), nil
	}
	return nil, auth.ErrPrincipalNotFound
}

func (m *memoryStorage) FindByUsername(_ context.Context, username string) (*auth.Principal, error) {
	return m.findBy(func(p *auth.Principal) bool { return p.Username == username })
}

func (m *memoryStorage) FindByPhone(_ context.Context, phone string) (*auth.Principal, error) {
	return m.findBy(func(p *auth.Principal) bool { return p.Phone != nil && *p.Phone == phone })
}

func (m *memoryStorage) FindByReferralCode(_ context.Context, code string) (*auth.Principal, error) {
	return m.findBy(func(p *auth.Principal) bool { return p.ReferralCode == code })
}

func (m *memoryStorage) findBy(match func(*auth.Principal) bool) (*auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, p := range m.principals {
		if match(p) {
			return clonePrincipal(p), nil
		}
	}
	return nil, auth.ErrPrincipalNotFound
}

func (m *memoryStorage) Create(_ context.Context, params auth.CreatePrincipalParams) (*auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	// Enforce the store-level uniqueness constraints the pre-checks race against.
	for _, p := range m.principals {
		if p.Username == params.Username {
			return nil, auth.ErrUsernameTaken
		}
		if params.Phone != nil && p.Phone != nil && *p.Phone == *params.Phone {
			return nil, auth.ErrPhoneTaken
		}
	}

	p := &auth.Principal{
		ID:           m.nextID,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Phone:        params.Phone,
		FullName:     params.FullName,
		BankCode:     params.BankCode,
		BankAccount:  params.BankAccount,
		Balance:      "0.00",
		Status:       params.Status,
		ReferralCode: params.ReferralCode,
		ReferrerID:   params.ReferrerID,
		CreatedAt:    time.Now(),
	}
	m.nextID++
	m.principals[p.ID] = p
	return clonePrincipal(p), nil
}

func (m *memoryStorage) UpdateSession(_ context.Context, principalID int64, update session.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.principals[principalID]
	if !ok {
		return auth.ErrPrincipalNotFound
	}
	p.SessionToken = &update.Token
	p.SessionDevice = update.Device
	updatedAt := update.UpdatedAt
	p.SessionUpdatedAt = &updatedAt
	p.SessionKickReason = update.KickReason
	return nil
}

func (m *memoryStorage) ClearSession(_ context.Context, principalID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.principals[principalID]
	if !ok {
		return auth.ErrPrincipalNotFound
	}
	p.SessionToken = nil
	p.SessionDevice = nil
	return nil
}

func (m *memoryStorage) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.principals[id]
	if !ok {
		return auth.ErrPrincipalNotFound
	}
	p.LastLoginAt = &at
	return nil
}

func (m *memoryStorage) UpdateProfile(_ context.Context, id int64, update auth.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.principals[id]
	if !ok {
		return auth.ErrPrincipalNotFound
	}

	if update.Phone != nil {
		for _, other := range m.principals {
			if other.ID != id && other.Phone != nil && *other.Phone == *update.Phone {
				return auth.ErrPhoneTaken
			}
		}
		p.Phone = update.Phone
	}
	if update.FullName != nil {
		p.FullName = update.FullName
	}
	if update.BankCode != nil {
		p.BankCode = update.BankCode
	}
	if update.BankAccount != nil {
		p.BankAccount = update.BankAccount
	}
	return nil
}

func (m *memoryStorage) Profile(_ context.Context, id int64) (*auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.principals[id]
	if !ok {
		return nil, auth.ErrPrincipalNotFound
	}
	return &auth.Profile{
		ID:           p.ID,
		Username:     p.Username,
		Phone:        p.Phone,
		FullName:     p.FullName,
		BankCode:     p.BankCode,
		BankAccount:  p.BankAccount,
		Balance:      p.Balance,
		ReferralCode: p.ReferralCode,
		Status:       p.Status,
		LastLoginAt:  p.LastLoginAt,
		CreatedAt:    p.CreatedAt,
	}, nil
}

func clonePrincipal(p *auth.Principal) *auth.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
