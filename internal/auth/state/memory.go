package state

import (
	"context"
	"sync"
	"time"

	"social-login-service/internal/auth"
	"social-login-service/internal/utils"
)

// MemoryStore keeps issued state values in process memory. Used in
// dev mode and tests; a multi-instance deployment needs the Redis
// store so the callback can land on any instance.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string]time.Time // value -> expiry
	ttl     time.Duration
	done    chan struct{}
	stopped sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		values: make(map[string]time.Time),
		ttl:    ttl,
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Issue(ctx context.Context) (string, error) {
	value, err := utils.RandomString(stateBytes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.values[value] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return value, nil
}

// ValidateAndConsume deletes under the same lock it checks, so two
// requests racing on one value see exactly one success.
func (s *MemoryStore) ValidateAndConsume(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.values[value]
	if !ok {
		return auth.ErrInvalidState
	}
	delete(s.values, value)

	if time.Now().After(expiry) {
		return auth.ErrInvalidState
	}
	return nil
}

// Close stops the expiry sweeper.
func (s *MemoryStore) Close() {
	s.stopped.Do(func() { close(s.done) })
}

// sweep drops expired values that were never consumed, bounding
// memory across abandoned login attempts.
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for value, expiry := range s.values {
				if now.After(expiry) {
					delete(s.values, value)
				}
			}
			s.mu.Unlock()
		}
	}
}
