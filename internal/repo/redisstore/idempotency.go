package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore keeps replayed POST responses in Redis. It satisfies
// middleware.IdempotencyStore.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(url string) (*IdempotencyStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &IdempotencyStore{client: redis.NewClient(opts)}, nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *IdempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *IdempotencyStore) Close() error {
	return s.client.Close()
}
