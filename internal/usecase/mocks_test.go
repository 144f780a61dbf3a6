package usecase

import (
	"context"
	"fmt"
	"time"

	"identity-hub/internal/domain"
)

// stubCodec is a deterministic TokenCodec for usecase tests. Tokens are
// readable strings; Verify answers whatever the test configured.
type stubCodec struct {
	verifyPrincipal *domain.Principal
	verifyErr       error
	issued          int
}

func (c *stubCodec) IssueAccess(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	c.issued++
	return fmt.Sprintf("access-%s-%d", uuid, c.issued), now.Add(5 * time.Minute), nil
}

func (c *stubCodec) IssueRefresh(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	return fmt.Sprintf("refresh-%s-%d", uuid, c.issued), now.Add(time.Hour), nil
}

func (c *stubCodec) Verify(token string) (*domain.Principal, error) {
	if c.verifyErr != nil {
		return nil, c.verifyErr
	}
	p := *c.verifyPrincipal
	p.Token = token
	return &p, nil
}

func (c *stubCodec) RefreshLifetime() time.Duration {
	return time.Hour
}

// mockSessionStore implements domain.SessionStore on a map.
type mockSessionStore struct {
	entries map[string]string
	err     error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{entries: make(map[string]string)}
}

func (m *mockSessionStore) Save(_ context.Context, uuid, refreshToken string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.entries[uuid] = refreshToken
	return nil
}

func (m *mockSessionStore) Invalidate(_ context.Context, uuid string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.entries, uuid)
	return nil
}

func (m *mockSessionStore) Exists(_ context.Context, uuid string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, found := m.entries[uuid]
	return found, nil
}

func (m *mockSessionStore) Get(_ context.Context, uuid string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.entries[uuid], nil
}

// mockAccountStore implements domain.AccountStore on in-memory maps.
type mockAccountStore struct {
	accounts  map[string]*domain.Account // keyed by uuid
	roles     map[int64][]domain.Role
	withdrawn map[string]bool
	updates   []domain.AccountUpdate
	err       error
}

func newMockAccountStore(accounts ...*domain.Account) *mockAccountStore {
	m := &mockAccountStore{
		accounts:  make(map[string]*domain.Account),
		roles:     make(map[int64][]domain.Role),
		withdrawn: make(map[string]bool),
	}
	for _, a := range accounts {
		m.accounts[a.UUID] = a
		m.roles[a.ID] = []domain.Role{domain.RoleUser}
	}
	return m
}

func (m *mockAccountStore) FindByUUID(_ context.Context, uuid string) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, found := m.accounts[uuid]
	if !found {
		return nil, domain.ErrAccountNotFound
	}
	copied := *a
	copied.Withdrawn = a.Withdrawn || m.withdrawn[uuid]
	return &copied, nil
}

func (m *mockAccountStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.accounts {
		if a.Email == email {
			copied := *a
			copied.Withdrawn = a.Withdrawn || m.withdrawn[a.UUID]
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockAccountStore) EmailExists(_ context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountStore) Create(_ context.Context, account *domain.Account, role domain.Role) error {
	if m.err != nil {
		return m.err
	}
	account.ID = int64(len(m.accounts) + 1)
	m.accounts[account.UUID] = account
	m.roles[account.ID] = []domain.Role{role}
	return nil
}

func (m *mockAccountStore) Update(_ context.Context, uuid string, changes domain.AccountUpdate) error {
	if m.err != nil {
		return m.err
	}
	if _, found := m.accounts[uuid]; !found {
		return domain.ErrAccountNotFound
	}
	m.updates = append(m.updates, changes)
	return nil
}

func (m *mockAccountStore) MarkWithdrawn(_ context.Context, uuid string) error {
	if m.err != nil {
		return m.err
	}
	if _, found := m.accounts[uuid]; !found {
		return domain.ErrAccountNotFound
	}
	m.withdrawn[uuid] = true
	return nil
}

func (m *mockAccountStore) FindRoles(_ context.Context, accountID int64) ([]domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[accountID], nil
}

// mockVerifier implements domain.CredentialVerifier with transparent
// "hashed:" prefixing.
type mockVerifier struct{}

func (mockVerifier) Verify(hashed, presented string) bool {
	return hashed == "hashed:"+presented
}

func (mockVerifier) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

// mockProvider implements domain.FederationProvider.
type mockProvider struct {
	profile *domain.FederatedProfile
	err     error
	code    string
}

func (m *mockProvider) Name() string { return "google" }

func (m *mockProvider) ExchangeCode(_ context.Context, code string) (*domain.FederatedProfile, error) {
	m.code = code
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}
