package provider

import (
	"context"

	"golang.org/x/oauth2"

	"social-login-service/internal/auth"
)

// Provider defines the contract every external auth provider must
// implement. Implementations return identity facts only and must not
// perform user creation, linking, or session management.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "linkedin").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL carrying the
	// given anti-forgery state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for provider credentials.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Identity fetches the user profile for the token and normalizes
	// it. Returns auth.ErrIncompleteProfile when no stable user id can
	// be extracted.
	Identity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error)
}
