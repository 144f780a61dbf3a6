package usecase

import (
	"context"
	"log/slog"

	"identity-hub/internal/domain"
)

// UpdateAccount applies profile changes and rotates the caller's tokens so
// that credentials minted before the update cannot be replayed.
type UpdateAccount struct {
	accounts    domain.AccountStore
	credentials domain.CredentialVerifier
	codec       domain.TokenCodec
	sessions    domain.SessionStore
	logger      *slog.Logger
}

// NewUpdateAccount creates a new UpdateAccount usecase.
func NewUpdateAccount(a domain.AccountStore, cv domain.CredentialVerifier, c domain.TokenCodec, s domain.SessionStore, l *slog.Logger) *UpdateAccount {
	return &UpdateAccount{accounts: a, credentials: cv, codec: c, sessions: s, logger: l}
}

// Execute updates the account, invalidates the old session and returns a
// fresh token pair. The account-store write and the cache writes are two
// physical operations; the cache is not a source of truth, so a crash in
// between merely forces a fresh login.
func (uc *UpdateAccount) Execute(ctx context.Context, principal domain.Principal, changes domain.AccountUpdate) (*domain.TokenPair, error) {
	account, err := uc.accounts.FindByUUID(ctx, principal.UUID)
	if err != nil {
		return nil, err
	}

	if changes.Password != nil {
		hashed, err := uc.credentials.Hash(*changes.Password)
		if err != nil {
			return nil, err
		}
		changes.Password = &hashed
	}

	if err := uc.accounts.Update(ctx, account.UUID, changes); err != nil {
		return nil, err
	}

	if err := uc.sessions.Invalidate(ctx, account.UUID); err != nil {
		return nil, err
	}

	roles, err := uc.accounts.FindRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	pair, err := mintPair(ctx, uc.codec, uc.sessions, account.UUID, roles)
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "account updated, session rotated", "uuid", account.UUID)
	return pair, nil
}
