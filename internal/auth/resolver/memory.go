package resolver

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"social-login-service/internal/auth"
)

// MemoryResolver keeps the identity-to-user mapping in process
// memory. Used in dev mode and tests; one mutex covers the whole
// lookup-or-create sequence, giving the same atomicity the DB
// resolver gets from its transaction.
//
// Only verified emails enter the emails index, so linking can never
// attach a login to an account created from an unverified email
// claim.
type MemoryResolver struct {
	mu         sync.Mutex
	identities map[identityKey]string // (provider, provider_user_id) -> user id
	emails     map[string]string      // lowercased verified email -> user id
}

type identityKey struct {
	provider       string
	providerUserID string
}

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{
		identities: make(map[identityKey]string),
		emails:     make(map[string]string),
	}
}

func (r *MemoryResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil || identity.ProviderUserID == "" {
		return "", auth.ErrIncompleteProfile
	}

	key := identityKey{identity.Provider, identity.ProviderUserID}
	email := strings.ToLower(identity.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if userID, ok := r.identities[key]; ok {
		return userID, nil
	}

	if email != "" {
		if userID, ok := r.emails[email]; ok {
			if !identity.EmailVerified {
				return "", auth.ErrAccountConflict
			}
			r.identities[key] = userID
			return userID, nil
		}
	}

	userID := uuid.NewString()
	r.identities[key] = userID
	if email != "" && identity.EmailVerified {
		r.emails[email] = userID
	}
	return userID, nil
}
