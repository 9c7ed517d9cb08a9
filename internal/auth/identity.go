package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "facebook", "linkedin"
	ProviderUserID string // provider-scoped unique user identifier
	Email          string // email returned by the provider, may be empty
	EmailVerified  bool   // whether the provider asserts email ownership
	DisplayName    string // human-readable name, best effort
}
