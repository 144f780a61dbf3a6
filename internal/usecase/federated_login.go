package usecase

import (
	"context"
	"errors"
	"log/slog"

	"identity-hub/internal/domain"
)

// FederationResult is one of the two terminal outcomes of a federated
// login attempt: a matched account with a token pair, or the fetched
// profile for an explicit signup step. The unmatched case is a valid
// outcome, not a failure.
type FederationResult struct {
	Matched bool
	Tokens  *domain.TokenPair
	Profile *domain.FederatedProfile
}

// FederatedLogin drives the authorization-code login flow against an
// external provider.
type FederatedLogin struct {
	provider domain.FederationProvider
	accounts domain.AccountStore
	codec    domain.TokenCodec
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewFederatedLogin creates a new FederatedLogin usecase.
func NewFederatedLogin(p domain.FederationProvider, a domain.AccountStore, c domain.TokenCodec, s domain.SessionStore, l *slog.Logger) *FederatedLogin {
	return &FederatedLogin{provider: p, accounts: a, codec: c, sessions: s, logger: l}
}

// Execute exchanges the code for a profile, then either logs the matched
// account in exactly like a normal login or hands the profile back for
// signup. Provider rejections (consumed or invalid codes) propagate as
// ErrFederationFailed; the flow never retries the exchange.
func (uc *FederatedLogin) Execute(ctx context.Context, code string) (*FederationResult, error) {
	profile, err := uc.provider.ExchangeCode(ctx, code)
	if err != nil {
		uc.logger.WarnContext(ctx, "code exchange failed",
			"provider", uc.provider.Name(),
			"error", err)
		return nil, err
	}

	account, err := uc.accounts.FindByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.logger.InfoContext(ctx, "federated profile unmatched",
				"provider", profile.Provider)
			return &FederationResult{Matched: false, Profile: profile}, nil
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

	uc.logger.InfoContext(ctx, "federated login succeeded",
		"provider", profile.Provider,
		"uuid", account.UUID)
	return &FederationResult{Matched: true, Tokens: pair}, nil
}
