package usecase

import (
	"context"
	"errors"
	"log/slog"

	"identity-hub/internal/domain"
)

// Refresh rotates a token pair given a live refresh token.
type Refresh struct {
	accounts domain.AccountStore
	codec    domain.TokenCodec
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewRefresh creates a new Refresh usecase.
func NewRefresh(a domain.AccountStore, c domain.TokenCodec, s domain.SessionStore, l *slog.Logger) *Refresh {
	return &Refresh{accounts: a, codec: c, sessions: s, logger: l}
}

// Execute verifies the presented refresh token, confirms it is the
// account's currently live one (a rotated-out token is rejected as a
// replay), re-checks the account in the store and issues a new pair.
// Withdrawn accounts cannot refresh; this bounds the lifetime of their
// outstanding access tokens to the access TTL.
func (uc *Refresh) Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	principal, err := uc.codec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	live, err := uc.sessions.Get(ctx, principal.UUID)
	if err != nil {
		return nil, err
	}
	if live == "" || live != refreshToken {
		uc.logger.InfoContext(ctx, "refresh with stale token rejected", "uuid", principal.UUID)
		return nil, domain.ErrRefreshRejected
	}

	account, err := uc.accounts.FindByUUID(ctx, principal.UUID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrRefreshRejected
		}
		return nil, err
	}
	if account.Withdrawn {
		return nil, domain.ErrAccountWithdrawn
	}

	roles, err := uc.accounts.FindRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	pair, err := mintPair(ctx, uc.codec, uc.sessions, account.UUID, roles)
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "token pair rotated", "uuid", account.UUID)
	return pair, nil
}
