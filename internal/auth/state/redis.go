package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social-login-service/internal/auth"
	"social-login-service/internal/utils"
)

// RedisStore keeps issued state values in Redis so callbacks can land
// on any instance. GETDEL makes consumption a single atomic round
// trip and expiry is delegated to key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: "oauth:state:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(value string) string {
	return s.prefix + value
}

func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	value, err := utils.RandomString(stateBytes)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.key(value), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("state: failed to store value: %w", err)
	}

	return value, nil
}

func (s *RedisStore) ValidateAndConsume(ctx context.Context, value string) error {
	err := s.client.GetDel(ctx, s.key(value)).Err()
	if err == redis.Nil {
		return auth.ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("state: failed to consume value: %w", err)
	}
	return nil
}
