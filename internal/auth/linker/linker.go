// Package linker decides which local account an external identity
// belongs to. It is the only place where identity-to-account mapping
// logic lives.
package linker

import (
	"context"
	"errors"

	"identity-service/internal/auth"
	"identity-service/internal/store"
)

type Linker struct {
	store store.Store
}

func New(s store.Store) *Linker {
	return &Linker{store: s}
}

// Link finds or creates the account for a normalized profile.
//
// The order is the contract: an existing (provider, subject-id) link
// always wins over an email match, so a changed email at the provider
// cannot re-route repeat logins to a different account. A first-time
// login from a new provider whose email matches an existing account is
// silently linked to it; if the provider allows email reuse that is an
// account-takeover vector, accepted here without a confirmation step.
func (l *Linker) Link(
	ctx context.Context,
	providerName string,
	profile *auth.Profile,
) (*store.Account, error) {

	if profile == nil {
		return nil, errors.New("linker: profile is nil")
	}

	// 1. Existing provider link.
	account, err := l.store.AccountByProvider(ctx, providerName, profile.SubjectID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// 2. Existing account with the same email: bind the new identity.
	account, err = l.store.AccountByEmail(ctx, profile.Email)
	if err == nil {
		if err := l.store.CreateProviderLink(ctx, account.ID, providerName, profile.SubjectID); err != nil {
			return nil, err
		}
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// 3. New account. No password credential is set, so password login
	// stays impossible for accounts provisioned this way.
	account, err = l.store.CreateAccount(ctx, profile.Email, profile.Name, "")
	if err != nil {
		return nil, err
	}

	if err := l.store.CreateProviderLink(ctx, account.ID, providerName, profile.SubjectID); err != nil {
		return nil, err
	}

	return account, nil
}
