package social

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore implements StateStore on Redis. State tokens expire via
// key TTL; consumption uses GETDEL so concurrent callbacks with the same
// state cannot both succeed.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore creates a state store backed by the given Redis client.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client, keyPrefix: "social:state:"}
}

func (s *RedisStateStore) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.keyPrefix+state, "1", ttl).Err()
}

func (s *RedisStateStore) ConsumeState(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, s.keyPrefix+state).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrStateNotFound
		}
		return err
	}
	return nil
}

// Compile-time interface assertion
var _ StateStore = (*RedisStateStore)(nil)
