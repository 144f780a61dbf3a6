package token

import (
	"errors"
	"fmt"
	"time"

	"identity-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds JWT codec configuration. The secret is loaded once at
// startup and never changes afterwards.
type Config struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// authClaims carries the subject uuid plus the role claims of the account.
type authClaims struct {
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Codec signs and verifies identity tokens.
// Implements domain.TokenCodec.
type Codec struct {
	cfg    Config
	secret []byte
}

// NewCodec creates a new JWT codec.
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg, secret: []byte(cfg.Secret)}
}

// IssueAccess generates a signed access token expiring at now + AccessTTL.
func (c *Codec) IssueAccess(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	return c.issue(uuid, authorities, now, c.cfg.AccessTTL)
}

// IssueRefresh generates a signed refresh token expiring at now + RefreshTTL.
func (c *Codec) IssueRefresh(uuid string, authorities []string, now time.Time) (string, time.Time, error) {
	return c.issue(uuid, authorities, now, c.cfg.RefreshTTL)
}

func (c *Codec) issue(uuid string, authorities []string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiry := now.Add(ttl)
	claims := authClaims{
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			Subject:   uuid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return signed, expiry, nil
}

// Verify checks signature integrity and structural validity and returns the
// decoded principal. Tokens signed with a foreign key are a signature error,
// never a crash.
func (c *Codec) Verify(tokenStr string) (*domain.Principal, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
		default:
			// Unknown signing methods and claim failures reject as signature
			// problems: the token did not come from us.
			return nil, fmt.Errorf("%w: %w", domain.ErrTokenSignature, err)
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenSignature
	}

	return &domain.Principal{
		UUID:        claims.Subject,
		Authorities: claims.Authorities,
		Token:       tokenStr,
	}, nil
}

// RefreshLifetime returns the configured refresh token TTL, used as the
// session entry TTL in the cache.
func (c *Codec) RefreshLifetime() time.Duration {
	return c.cfg.RefreshTTL
}
