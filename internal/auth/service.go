package auth

import (
	"context"
	"errors"
	"regexp"

	"identity-service/internal/auth/credentials"
	"identity-service/internal/auth/token"
	"identity-service/internal/logger"
	"identity-service/internal/store"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenPair is the credential set handed out on successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccountLinker resolves a normalized external profile to a local account.
type AccountLinker interface {
	Link(ctx context.Context, provider string, profile *Profile) (*store.Account, error)
}

// Service orchestrates register, login, OAuth callback, and refresh. It
// sequences the hasher, providers, linker, store, and token service and
// owns the error taxonomy the boundary maps to HTTP statuses.
type Service struct {
	store  store.Store
	tokens *token.Service
	linker AccountLinker
}

func NewService(s store.Store, tokens *token.Service, linker AccountLinker) *Service {
	return &Service{store: s, tokens: tokens, linker: linker}
}

// Register validates input, hashes the password, and persists the
// account. The returned account never includes the credential digest.
func (s *Service) Register(
	ctx context.Context,
	name string,
	email string,
	password string,
) (*store.Account, error) {

	if name == "" || email == "" || password == "" {
		return nil, validationErr("Missing required fields")
	}
	if !emailPattern.MatchString(email) {
		return nil, validationErr("Invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, validationErr("Password must be at least 8 characters")
	}

	if _, err := s.store.AccountByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	account, err := s.store.CreateAccount(ctx, email, name, hash)
	if errors.Is(err, store.ErrConflict) {
		// Lost the race against a concurrent registration.
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	account.PasswordHash = ""
	return account, nil
}

// Login authenticates by email and password. Every failure path returns
// the same ErrInvalidCredentials so callers cannot probe which emails
// are registered or which accounts are OAuth-only.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !credentials.Verify(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(account)
}

// OAuthLogin links an already-resolved profile and issues a token pair.
// The code-to-profile exchange happens at the boundary, where the
// provider is selected; everything after the profile is provider-agnostic.
func (s *Service) OAuthLogin(
	ctx context.Context,
	providerName string,
	profile *Profile,
) (*TokenPair, error) {

	account, err := s.linker.Link(ctx, providerName, profile)
	if err != nil {
		logger.Error("account linking failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		return nil, ErrAuthenticationFailed
	}

	return s.issuePair(account)
}

// Refresh verifies the refresh token and mints a fresh access token. The
// account is re-loaded so the new token carries the current role, even
// if it changed after the refresh token was issued. The refresh token is
// not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		logger.Warn("refresh token rejected", map[string]any{"reason": err.Error()})
		return "", ErrInvalidToken
	}

	account, err := s.store.AccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", err
	}

	return s.tokens.IssueAccess(account.ID, account.Role)
}

func (s *Service) issuePair(account *store.Account) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(account.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
