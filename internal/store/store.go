package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a unique constraint (email or
	// provider link) rejects a write.
	ErrConflict = errors.New("store: conflict")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is a local user record. PasswordHash is empty for accounts
// provisioned through an OAuth provider; such accounts cannot log in
// with a password.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProviderLink binds an account to one external identity. The
// (Provider, ProviderUserID) pair is unique across all accounts.
type ProviderLink struct {
	ID             string
	AccountID      string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Store is the persistence collaborator for accounts and provider links.
// Implementations enforce email and provider-link uniqueness and report
// violations as ErrConflict.
type Store interface {
	CreateAccount(ctx context.Context, email, name, passwordHash string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
	// AccountByEmail matches case-insensitively.
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByProvider(ctx context.Context, provider, providerUserID string) (*Account, error)
	UpdateAccountName(ctx context.Context, id, name string) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)

	CreateProviderLink(ctx context.Context, accountID, provider, providerUserID string) error
}
