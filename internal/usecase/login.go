package usecase

import (
	"context"
	"errors"
	"log/slog"

	"identity-hub/internal/domain"
)

// Login authenticates an email/password pair and establishes a session.
type Login struct {
	accounts    domain.AccountStore
	credentials domain.CredentialVerifier
	codec       domain.TokenCodec
	sessions    domain.SessionStore
	logger      *slog.Logger
}

// NewLogin creates a new Login usecase.
func NewLogin(a domain.AccountStore, cv domain.CredentialVerifier, c domain.TokenCodec, s domain.SessionStore, l *slog.Logger) *Login {
	return &Login{accounts: a, credentials: cv, codec: c, sessions: s, logger: l}
}

// Execute verifies the credentials and issues a token pair. Unknown
// emails, wrong passwords and withdrawn accounts all answer ErrLoginFailed
// so callers cannot probe which of the three it was.
func (uc *Login) Execute(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	account, err := uc.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrLoginFailed
		}
		return nil, err
	}

	if account.Withdrawn {
		uc.logger.InfoContext(ctx, "login attempt on withdrawn account", "uuid", account.UUID)
		return nil, domain.ErrLoginFailed
	}

	if !uc.credentials.Verify(account.Password, password) {
		return nil, domain.ErrLoginFailed
	}

	roles, err := uc.accounts.FindRoles(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	pair, err := mintPair(ctx, uc.codec, uc.sessions, account.UUID, roles)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to establish session", "uuid", account.UUID, "error", err)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "login succeeded", "uuid", account.UUID)
	return pair, nil
}
