package usecase

import (
	"context"
	"time"

	"identity-hub/internal/domain"
)

// authorityNames converts stored roles into token claim strings.
func authorityNames(roles []domain.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

// mintPair issues a fresh access/refresh pair and saves the refresh token
// as the account's single live session entry. The cache save uses
// last-write-wins semantics: a concurrently issued earlier pair simply
// becomes invalid, which is the intended rotation behavior.
func mintPair(ctx context.Context, codec domain.TokenCodec, sessions domain.SessionStore, uuid string, roles []domain.Role) (*domain.TokenPair, error) {
	now := time.Now()
	authorities := authorityNames(roles)

	access, accessExpiry, err := codec.IssueAccess(uuid, authorities, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExpiry, err := codec.IssueRefresh(uuid, authorities, now)
	if err != nil {
		return nil, err
	}

	if err := sessions.Save(ctx, uuid, refresh, codec.RefreshLifetime()); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:   access,
		AccessExpiry:  accessExpiry,
		RefreshToken:  refresh,
		RefreshExpiry: refreshExpiry,
	}, nil
}
