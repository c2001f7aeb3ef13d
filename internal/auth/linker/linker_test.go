package linker

import (
	"context"
	"testing"

	"identity-service/internal/auth"
	"identity-service/internal/store"
)

func TestLinkCreatesAccountForNewIdentity(t *testing.T) {
	st := store.NewMemoryStore()
	l := New(st)

	account, err := l.Link(context.Background(), "github", &auth.Profile{
		Email:     "new@example.com",
		Name:      "New User",
		SubjectID: "gh-1",
	})
	if err != nil {
		t.Fatalf("Link error: %v", err)
	}

	if account.Email != "new@example.com" {
		t.Errorf("Email = %q", account.Email)
	}
	if account.PasswordHash != "" {
		t.Error("OAuth-provisioned account must have no password credential")
	}
	if account.Role != store.RoleUser {
		t.Errorf("Role = %q, want user", account.Role)
	}

	// The link must exist now.
	linked, err := st.AccountByProvider(context.Background(), "github", "gh-1")
	if err != nil {
		t.Fatalf("AccountByProvider error: %v", err)
	}
	if linked.ID != account.ID {
		t.Error("provider link points at a different account")
	}
}

func TestLinkPrefersProviderLinkOverEmail(t *testing.T) {
	st := store.NewMemoryStore()
	l := New(st)
	ctx := context.Background()

	first, err := l.Link(ctx, "github", &auth.Profile{
		Email:     "original@example.com",
		Name:      "User",
		SubjectID: "gh-7",
	})
	if err != nil {
		t.Fatalf("first Link error: %v", err)
	}

	// Same subject comes back with a different email; the existing link
	// must win, even though no account has the new email.
	second, err := l.Link(ctx, "github", &auth.Profile{
		Email:     "changed@example.com",
		Name:      "User",
		SubjectID: "gh-7",
	})
	if err != nil {
		t.Fatalf("second Link error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("repeat login resolved to account %s, want %s", second.ID, first.ID)
	}
	if second.Email != "original@example.com" {
		t.Errorf("Email = %q, the stored account must be untouched", second.Email)
	}
}

func TestLinkBindsToExistingAccountByEmail(t *testing.T) {
	st := store.NewMemoryStore()
	l := New(st)
	ctx := context.Background()

	existing, err := st.CreateAccount(ctx, "ann@example.com", "Ann", "some-hash")
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}

	linked, err := l.Link(ctx, "google", &auth.Profile{
		Email:     "ANN@example.com", // case-insensitive match
		Name:      "Ann G",
		SubjectID: "goog-1",
	})
	if err != nil {
		t.Fatalf("Link error: %v", err)
	}

	if linked.ID != existing.ID {
		t.Error("email match must link to the existing account, not create one")
	}

	accounts, _ := st.ListAccounts(ctx)
	if len(accounts) != 1 {
		t.Errorf("account count = %d, want 1", len(accounts))
	}
}

func TestLinkDifferentSubjectsGetDifferentAccounts(t *testing.T) {
	st := store.NewMemoryStore()
	l := New(st)
	ctx := context.Background()

	a, err := l.Link(ctx, "github", &auth.Profile{Email: "a@example.com", Name: "A", SubjectID: "gh-a"})
	if err != nil {
		t.Fatalf("Link error: %v", err)
	}
	b, err := l.Link(ctx, "github", &auth.Profile{Email: "b@example.com", Name: "B", SubjectID: "gh-b"})
	if err != nil {
		t.Fatalf("Link error: %v", err)
	}

	if a.ID == b.ID {
		t.Error("distinct subjects resolved to the same account")
	}
}

func TestLinkNilProfile(t *testing.T) {
	l := New(store.NewMemoryStore())
	if _, err := l.Link(context.Background(), "github", nil); err == nil {
		t.Fatal("expected error for nil profile")
	}
}
