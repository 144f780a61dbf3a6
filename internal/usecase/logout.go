package usecase

import (
	"context"
	"log/slog"

	"identity-hub/internal/domain"
)

// Logout invalidates the caller's live session entry.
type Logout struct {
	sessions domain.SessionStore
	logger   *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(s domain.SessionStore, l *slog.Logger) *Logout {
	return &Logout{sessions: s, logger: l}
}

// Execute deletes the session entry for the authenticated principal.
// An already-absent session is not an error; the outcome is the same.
func (uc *Logout) Execute(ctx context.Context, principal domain.Principal) error {
	if err := uc.sessions.Invalidate(ctx, principal.UUID); err != nil {
		return err
	}

	uc.logger.InfoContext(ctx, "session invalidated", "uuid", principal.UUID)
	return nil
}
