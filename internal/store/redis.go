package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection as a single string value under
// "<prefix><collection>". Writes are plain SETs, so concurrent clients get
// last-write-wins on the whole collection.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store using client. prefix namespaces the keys,
// e.g. "planit:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL and returns a connected client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store.NewRedisClient: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store.NewRedisClient: ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(c Collection) string {
	return s.prefix + string(c)
}

// Get returns nil for a collection that was never written.
func (s *RedisStore) Get(ctx context.Context, c Collection) ([]byte, error) {
	doc, err := s.client.Get(ctx, s.key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.RedisStore.Get: %w", err)
	}
	return doc, nil
}

func (s *RedisStore) Put(ctx context.Context, c Collection, doc []byte) error {
	if err := s.client.Set(ctx, s.key(c), doc, 0).Err(); err != nil {
		return fmt.Errorf("store.RedisStore.Put: %w", err)
	}
	return nil
}
