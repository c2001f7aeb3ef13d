// Package token mints and verifies the two stateless credential kinds:
// short-lived access tokens carrying the account role, and longer-lived
// refresh tokens carrying only the account id. The two kinds use
// independent signing keys, so one can never verify as the other.
//
// Tokens are verified by signature and expiry alone; there is no
// server-side lookup and no revocation. That trade-off is intentional.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"identity-service/internal/store"
)

var (
	// ErrExpired means the token was well-formed and correctly signed
	// but is past its expiry. Kept distinct from ErrInvalid for logging;
	// the public boundary collapses both to one 401.
	ErrExpired = errors.New("token expired")
	// ErrInvalid means the token is malformed, tampered, or signed with
	// the wrong key.
	ErrInvalid = errors.New("token invalid")
)

type AccessClaims struct {
	AccountID string     `json:"id"`
	Role      store.Role `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

type Config struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type Service struct {
	cfg Config
	now func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

func (s *Service) IssueAccess(accountID string, role store.Role) (string, error) {
	now := s.now()
	claims := AccessClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("token: sign access: %w", err)
	}
	return signed, nil
}

func (s *Service) IssueRefresh(accountID string) (string, error) {
	now := s.now()
	claims := RefreshClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("token: sign refresh: %w", err)
	}
	return signed, nil
}

func (s *Service) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := s.verify(tokenStr, &claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.AccountID == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}

func (s *Service) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := s.verify(tokenStr, &claims, s.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.AccountID == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}

func (s *Service) verify(tokenStr string, claims jwt.Claims, secret string) error {
	tok, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalid
	}
	if !tok.Valid {
		return ErrInvalid
	}
	return nil
}
