package usecase

import (
	"context"
	"log/slog"

	"identity-hub/internal/domain"
)

// WithdrawAccount soft-deletes the caller's account and revokes its session.
type WithdrawAccount struct {
	accounts domain.AccountStore
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewWithdrawAccount creates a new WithdrawAccount usecase.
func NewWithdrawAccount(a domain.AccountStore, s domain.SessionStore, l *slog.Logger) *WithdrawAccount {
	return &WithdrawAccount{accounts: a, sessions: s, logger: l}
}

// Execute marks the account withdrawn and invalidates the session entry.
// Outstanding access tokens keep verifying until their expiry; the refresh
// path re-checks the withdrawn flag, so exposure is bounded by the access
// token TTL.
func (uc *WithdrawAccount) Execute(ctx context.Context, principal domain.Principal) error {
	if _, err := uc.accounts.FindByUUID(ctx, principal.UUID); err != nil {
		return err
	}

	if err := uc.accounts.MarkWithdrawn(ctx, principal.UUID); err != nil {
		return err
	}

	if err := uc.sessions.Invalidate(ctx, principal.UUID); err != nil {
		return err
	}

	uc.logger.InfoContext(ctx, "account withdrawn, session revoked", "uuid", principal.UUID)
	return nil
}
