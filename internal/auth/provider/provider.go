package provider

import (
	"context"

	"identity-service/internal/auth"
)

// OAuthProvider defines the contract every external identity provider
// must implement. Implementations return identity facts only and must
// not perform account creation, linking, or token issuance.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL returns the provider's OAuth authorization URL.
	AuthCodeURL() string

	// Exchange exchanges the authorization code for provider credentials,
	// fetches the profile, and returns a normalized profile.
	Exchange(ctx context.Context, code string) (*auth.Profile, error)
}
