package auth

// Profile represents a normalized external identity returned by an OAuth
// provider. It contains facts only, no decisions, and is never persisted
// as-is.
type Profile struct {
	Email     string // always non-empty; providers synthesize a placeholder when missing
	Name      string // display name, falls back to the provider login handle
	SubjectID string // provider-scoped unique user identifier
}
