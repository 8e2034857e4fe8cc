package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCommander is the subset of *redis.Client the store uses.
type RedisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares cached collections between instances. Linked entries are flattened by
// the snapshot codec since the resolved graph may contain cycles.
type RedisStore struct {
	client RedisCommander
	prefix string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client RedisCommander, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domain.EntryCollection, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	value, err := decodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value *domain.EntryCollection, ttl time.Duration) error {
	raw, err := encodeSnapshot(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
