package resolver

import (
	"context"

	"social-login-service/internal/auth"
)

// Resolver determines which local user an external identity belongs
// to, creating the user on first login. It is the only place where
// identity-to-user mapping logic lives.
//
// Resolve must be atomic per (provider, provider_user_id): two
// concurrent first logins with the same identity converge on one
// local user. Returns auth.ErrAccountConflict when the identity's
// email matches an existing account but the provider does not assert
// ownership of it.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (userID string, err error)
}
