package usecase

import (
	"context"
	"log/slog"

	"identity-hub/internal/domain"
)

// MemberInfoResult is the member projection exposed to sibling services.
type MemberInfoResult struct {
	UUID  string
	Name  string
	Email string
}

// MemberInfo resolves member display data for internal service-to-service
// lookups.
type MemberInfo struct {
	accounts domain.AccountStore
	logger   *slog.Logger
}

// NewMemberInfo creates a new MemberInfo usecase.
func NewMemberInfo(a domain.AccountStore, l *slog.Logger) *MemberInfo {
	return &MemberInfo{accounts: a, logger: l}
}

// Execute returns name and email for the given uuid.
func (uc *MemberInfo) Execute(ctx context.Context, uuid string) (*MemberInfoResult, error) {
	account, err := uc.accounts.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return &MemberInfoResult{
		UUID:  account.UUID,
		Name:  account.Name,
		Email: account.Email,
	}, nil
}
