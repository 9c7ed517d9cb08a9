package state

import (
	"context"
	"time"
)

// DefaultTTL bounds how long an issued state value stays valid.
const DefaultTTL = 10 * time.Minute

// stateBytes gives 256 bits of entropy per value.
const stateBytes = 32

// Store issues and validates anti-forgery state values for the OAuth
// redirect round trip. Values are single-use: ValidateAndConsume must
// atomically retire the value it accepts, so a replayed callback can
// never validate twice, even under concurrent requests.
type Store interface {
	// Issue returns a fresh unguessable state value.
	Issue(ctx context.Context) (string, error)

	// ValidateAndConsume retires the value. Returns
	// auth.ErrInvalidState when the value is unknown, expired, or
	// already consumed.
	ValidateAndConsume(ctx context.Context, value string) error
}
