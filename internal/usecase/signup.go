package usecase

import (
	"context"
	"log/slog"

	"identity-hub/internal/domain"

	"github.com/google/uuid"
)

// SignupInput carries the attributes of a new registration.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// SignupResult is returned to the caller after a successful registration.
type SignupResult struct {
	UUID  string
	Email string
	Name  string
}

// Signup registers a new account with the default role.
type Signup struct {
	accounts    domain.AccountStore
	credentials domain.CredentialVerifier
	logger      *slog.Logger
}

// NewSignup creates a new Signup usecase.
func NewSignup(a domain.AccountStore, cv domain.CredentialVerifier, l *slog.Logger) *Signup {
	return &Signup{accounts: a, credentials: cv, logger: l}
}

// Execute creates the account. A taken email answers ErrEmailOverlap; the
// store enforces uniqueness as well, so the pre-check is advisory and the
// insert remains the authority under races.
func (uc *Signup) Execute(ctx context.Context, input SignupInput) (*SignupResult, error) {
	taken, err := uc.accounts.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailOverlap
	}

	hashed, err := uc.credentials.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		UUID:     uuid.NewString(),
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: hashed,
	}
	if err := uc.accounts.Create(ctx, account, domain.RoleUser); err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "account registered", "uuid", account.UUID)
	return &SignupResult{
		UUID:  account.UUID,
		Email: account.Email,
		Name:  account.Name,
	}, nil
}

// CheckEmail reports whether the email is already registered.
func (uc *Signup) CheckEmail(ctx context.Context, email string) (bool, error) {
	return uc.accounts.EmailExists(ctx, email)
}
