package auth

import "errors"

var (
	// ErrInvalidCredentials is the single uniform login failure. It is
	// returned whether the account does not exist, has no password
	// credential, or the password does not match, so that callers cannot
	// distinguish the cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidToken covers expired, tampered, and malformed tokens at
	// the public boundary; the token package keeps the distinction for
	// logging only.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAuthenticationFailed covers provider exchange and profile fetch
	// failures without leaking upstream detail.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAccountNotFound is returned when a verified token references an
	// account that no longer exists.
	ErrAccountNotFound = errors.New("user not found")
)

// ValidationError reports malformed registration or update input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
