package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development.
// It enforces the same uniqueness rules as the Postgres schema.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	links    []ProviderLink
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*Account)}
}

func (s *MemoryStore) CreateAccount(
	ctx context.Context,
	email string,
	name string,
	passwordHash string,
) (*Account, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return nil, ErrConflict
		}
	}

	now := time.Now()
	a := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.accounts[a.ID] = a

	out := *a
	return &out, nil
}

func (s *MemoryStore) AccountByID(ctx context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

func (s *MemoryStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			out := *a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) AccountByProvider(
	ctx context.Context,
	provider string,
	providerUserID string,
) (*Account, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.Provider == provider && l.ProviderUserID == providerUserID {
			if a, ok := s.accounts[l.AccountID]; ok {
				out := *a
				return &out, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateAccountName(ctx context.Context, id, name string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	out := *a
	return &out, nil
}

func (s *MemoryStore) ListAccounts(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (s *MemoryStore) CreateProviderLink(
	ctx context.Context,
	accountID string,
	provider string,
	providerUserID string,
) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.Provider == provider && l.ProviderUserID == providerUserID {
			return ErrConflict
		}
		if l.AccountID == accountID && l.Provider == provider {
			return ErrConflict
		}
	}

	s.links = append(s.links, ProviderLink{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Provider:       provider,
		ProviderUserID: providerUserID,
		CreatedAt:      time.Now(),
	})
	return nil
}

// SetRole is a test helper for exercising role-gated behavior.
func (s *MemoryStore) SetRole(id string, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.Role = role
	}
}
