package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session values in Redis with a sliding TTL: every write
// re-arms the expiry of the whole session, so an active visitor never loses
// state mid-visit.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, sessionID, key string, out interface{}) error {
	data, err := r.client.Get(ctx, sessionKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoValue
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal session value failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value failed: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(sessionID, key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}
