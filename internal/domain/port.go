package domain

import (
	"context"
	"time"
)

// TokenCodec signs and verifies self-contained identity tokens.
// Implementations are pure given the signing secret; only Verify's
// expiry check depends on the clock.
type TokenCodec interface {
	IssueAccess(uuid string, authorities []string, now time.Time) (token string, expiry time.Time, err error)
	IssueRefresh(uuid string, authorities []string, now time.Time) (token string, expiry time.Time, err error)
	Verify(token string) (*Principal, error)
	RefreshLifetime() time.Duration
}

// SessionStore tracks the single live refresh token per account in the
// key-value cache. Save overwrites any prior entry; Invalidate is a no-op
// when no entry exists. Unavailability is always surfaced, never treated
// as absence.
type SessionStore interface {
	Save(ctx context.Context, uuid, refreshToken string, ttl time.Duration) error
	Invalidate(ctx context.Context, uuid string) error
	Exists(ctx context.Context, uuid string) (bool, error)
	Get(ctx context.Context, uuid string) (string, error)
}

// AccountStore is the relational store of accounts and roles. Owned by an
// external collaborator; the core consumes this boundary only.
type AccountStore interface {
	FindByUUID(ctx context.Context, uuid string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *Account, role Role) error
	Update(ctx context.Context, uuid string, changes AccountUpdate) error
	MarkWithdrawn(ctx context.Context, uuid string) error
	FindRoles(ctx context.Context, accountID int64) ([]Role, error)
}

// CredentialVerifier checks a presented password against the stored
// verification reference. Hashing scheme selection is delegated here.
type CredentialVerifier interface {
	Verify(hashed, presented string) bool
	Hash(plain string) (string, error)
}

// FederationProvider exchanges an authorization code for a remote profile.
// Codes are single-use by provider contract; a consumed or invalid code
// surfaces as ErrFederationFailed.
type FederationProvider interface {
	Name() string
	ExchangeCode(ctx context.Context, code string) (*FederatedProfile, error)
}

// SecretSource resolves cache connection settings from a remote secret
// manager at startup. Failure is fatal to process startup.
type SecretSource interface {
	CacheSettings(ctx context.Context) (*CacheSettings, error)
}

// CacheSettings is the session-cache connection info held by the secret
// manager as "host:port:database" plus a separate password secret.
type CacheSettings struct {
	Host     string
	Port     int
	Database int
	Password string
}
