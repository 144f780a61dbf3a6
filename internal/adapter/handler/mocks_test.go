package handler

import (
	"context"
	"fmt"
	"time"

	"identity-hub/internal/domain"
)

// stubCodec issues predictable tokens and verifies any token it issued for
// the configured principal.
type stubCodec struct {
	principal *domain.Principal
	verifyErr error
	issued    int
}

func (c *stubCodec) IssueAccess(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	c.issued++
	return fmt.Sprintf("access-%s-%d", uuid, c.issued), now.Add(5 * time.Minute), nil
}

func (c *stubCodec) IssueRefresh(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	c.issued++
	return fmt.Sprintf("refresh-%s-%d", uuid, c.issued), now.Add(time.Hour), nil
}

func (c *stubCodec) Verify(token string) (*domain.Principal, error) {
	if c.verifyErr != nil {
		return nil, c.verifyErr
	}
	p := *c.principal
	p.Token = token
	return &p, nil
}

func (c *stubCodec) RefreshLifetime() time.Duration { return time.Hour }

type memorySessionStore struct {
	entries map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{entries: make(map[string]string)}
}

func (s *memorySessionStore) Save(_ context.Context, uuid, refreshToken string, _ time.Duration) error {
	s.entries[uuid] = refreshToken
	return nil
}

func (s *memorySessionStore) Invalidate(_ context.Context, uuid string) error {
	delete(s.entries, uuid)
	return nil
}

func (s *memorySessionStore) Exists(_ context.Context, uuid string) (bool, error) {
	_, ok := s.entries[uuid]
	return ok, nil
}

func (s *memorySessionStore) Get(_ context.Context, uuid string) (string, error) {
	return s.entries[uuid], nil
}

type memoryAccountStore struct {
	accounts map[string]*domain.Account
	roles    map[int64][]domain.Role
}

func newMemoryAccountStore(accounts ...*domain.Account) *memoryAccountStore {
	s := &memoryAccountStore{
		accounts: make(map[string]*domain.Account),
		roles:    make(map[int64][]domain.Role),
	}
	for _, a := range accounts {
		s.accounts[a.UUID] = a
		s.roles[a.ID] = []domain.Role{domain.RoleUser}
	}
	return s
}

func (s *memoryAccountStore) FindByUUID(_ context.Context, uuid string) (*domain.Account, error) {
	a, ok := s.accounts[uuid]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (s *memoryAccountStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *memoryAccountStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, a := range s.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryAccountStore) Create(_ context.Context, account *domain.Account, role domain.Role) error {
	account.ID = int64(len(s.accounts) + 1)
	s.accounts[account.UUID] = account
	s.roles[account.ID] = []domain.Role{role}
	return nil
}

func (s *memoryAccountStore) Update(_ context.Context, uuid string, changes domain.AccountUpdate) error {
	a, ok := s.accounts[uuid]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if changes.Name != nil {
		a.Name = *changes.Name
	}
	if changes.Phone != nil {
		a.Phone = *changes.Phone
	}
	if changes.Password != nil {
		a.Password = *changes.Password
	}
	return nil
}

func (s *memoryAccountStore) MarkWithdrawn(_ context.Context, uuid string) error {
	a, ok := s.accounts[uuid]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Withdrawn = true
	return nil
}

func (s *memoryAccountStore) FindRoles(_ context.Context, accountID int64) ([]domain.Role, error) {
	return s.roles[accountID], nil
}

// plainVerifier compares and hashes with a visible prefix so tests can
// assert on stored values.
type plainVerifier struct{}

func (plainVerifier) Verify(hashed, presented string) bool { return hashed == "hashed:"+presented }
func (plainVerifier) Hash(plain string) (string, error)   { return "hashed:" + plain, nil }

type stubProvider struct {
	profile *domain.FederatedProfile
	err     error
}

func (p *stubProvider) Name() string { return "google" }

func (p *stubProvider) ExchangeCode(_ context.Context, _ string) (*domain.FederatedProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}
