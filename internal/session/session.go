package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session. It intentionally
// stores only identity pointers, not auth state.
type Session struct {
	SessionID string    `json:"session_id"` // unique, unguessable identifier
	UserID    string    `json:"user_id"`    // references users.id
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"` // absolute expiry time
}

// Store defines how sessions are persisted and retrieved.
// Implementations must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
