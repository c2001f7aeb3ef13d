package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements Store on database/sql. Uniqueness of email and
// of (provider, provider_user_id) is enforced by the schema; violations
// surface as ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, email, name, COALESCE(password_hash, ''), role, created_at, updated_at`

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan account: %w", err)
	}
	return &a, nil
}

// mapConstraint converts a unique-violation error (SQLSTATE 23505) into
// ErrConflict so callers can treat races and duplicates uniformly.
func mapConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

func (s *PostgresStore) CreateAccount(
	ctx context.Context,
	email string,
	name string,
	passwordHash string,
) (*Account, error) {

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING `+accountColumns,
		email, name, passwordHash,
	)

	a, err := scanAccount(row)
	if err != nil {
		return nil, mapConstraint(err)
	}
	return a, nil
}

func (s *PostgresStore) AccountByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (s *PostgresStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanAccount(row)
}

func (s *PostgresStore) AccountByProvider(
	ctx context.Context,
	provider string,
	providerUserID string,
) (*Account, error) {

	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, COALESCE(u.password_hash, ''), u.role, u.created_at, u.updated_at
		FROM users u
		JOIN auth_providers ap ON ap.user_id = u.id
		WHERE ap.provider = $1
		  AND ap.provider_user_id = $2
	`, provider, providerUserID)
	return scanAccount(row)
}

func (s *PostgresStore) UpdateAccountName(ctx context.Context, id, name string) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+accountColumns,
		name, id,
	)
	return scanAccount(row)
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) CreateProviderLink(
	ctx context.Context,
	accountID string,
	provider string,
	providerUserID string,
) error {

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_providers (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`, accountID, provider, providerUserID)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}
