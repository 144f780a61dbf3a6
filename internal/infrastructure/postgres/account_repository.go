package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"identity-hub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// AccountRepository implements domain.AccountStore for PostgreSQL.
type AccountRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db DatabaseIface, logger *slog.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger.With("component", "account_repository"),
	}
}

const accountColumns = `id, uuid, email, name, phone, password, withdrawn, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.UUID,
		&account.Email,
		&account.Name,
		&account.Phone,
		&account.Password,
		&account.Withdrawn,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	return account, nil
}

// FindByUUID returns the account identified by uuid.
func (r *AccountRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE uuid = $1`
	return scanAccount(r.db.QueryRow(ctx, query, uuid))
}

// FindByEmail returns the account registered under email. Withdrawn
// accounts are included; callers decide whether withdrawal matters.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRow(ctx, query, email))
}

// EmailExists reports whether email is already registered.
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	return exists, nil
}

// Create inserts a new account and grants it the given role in a single
// transaction.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account, role domain.Role) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (uuid, email, name, phone, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		account.UUID, account.Email, account.Name, account.Phone, account.Password,
	).Scan(&account.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailOverlap
		}
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}

	var roleID int64
	err = tx.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, string(role)).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, role)
		}
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
		account.ID, roleID,
	); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}

	r.logger.Info("account created", "uuid", account.UUID, "role", role)
	return nil
}

// Update applies the non-nil attribute changes to the account.
func (r *AccountRepository) Update(ctx context.Context, uuid string, changes domain.AccountUpdate) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET
			name     = COALESCE($2, name),
			phone    = COALESCE($3, phone),
			password = COALESCE($4, password)
		 WHERE uuid = $1`,
		uuid, changes.Name, changes.Phone, changes.Password,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// MarkWithdrawn soft-deletes the account. The row stays in place; only the
// withdrawn flag changes.
func (r *AccountRepository) MarkWithdrawn(ctx context.Context, uuid string) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET withdrawn = TRUE WHERE uuid = $1`, uuid)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	r.logger.Info("account withdrawn", "uuid", uuid)
	return nil
}

// FindRoles returns the roles granted to the account.
func (r *AccountRepository) FindRoles(ctx context.Context, accountID int64) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.name FROM roles r
		 JOIN account_roles ar ON ar.role_id = r.id
		 WHERE ar.account_id = $1
		 ORDER BY r.name`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
		}
		roles = append(roles, domain.Role(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAccountStoreUnavailable, err)
	}
	return roles, nil
}
