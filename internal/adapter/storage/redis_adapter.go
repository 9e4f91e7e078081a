package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "eventsales:"

// RedisAdapter keeps event state as JSON blobs under prefixed keys. No TTL:
// an event lives until the operator resets it.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, stateKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, stateKeyPrefix+key, value, 0).Err()
}

func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, stateKeyPrefix+key).Err()
}
