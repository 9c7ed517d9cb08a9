package session

import (
	"context"
	"fmt"
	"time"

	"social-login-service/internal/auth"
	"social-login-service/internal/auth/resolver"
)

// DefaultTTL bounds how long an issued session stays valid.
const DefaultTTL = 24 * time.Hour

// Issuer turns a normalized identity into an application session:
// resolve the local user, mint an unguessable session ID, persist it.
// The boundary layer hands the returned session to the client as a
// cookie.
type Issuer struct {
	resolver resolver.Resolver
	store    Store
	ttl      time.Duration
}

func NewIssuer(r resolver.Resolver, store Store, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		resolver: r,
		store:    store,
		ttl:      ttl,
	}
}

func (i *Issuer) Establish(ctx context.Context, identity *auth.Identity) (*Session, error) {
	userID, err := i.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}

	if err := i.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("session: failed to persist: %w", err)
	}

	return &s, nil
}
