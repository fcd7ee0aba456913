package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to TEST_REDIS_URL (e.g. redis://localhost:6379/15).
// The test is skipped if the variable is not set.
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	url := requireEnv(t, "TEST_REDIS_URL")

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("testutil.NewRedisClient: parse url: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedisClient: ping: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

// RedisKeyPrefix returns a key prefix unique to this test so parallel runs
// against one Redis database never see each other's collections.
// Keys under the prefix are deleted when the test finishes.
func RedisKeyPrefix(t *testing.T) string {
	t.Helper()
	prefix := "planit-test:" + uuid.NewString() + ":"

	url := requireEnv(t, "TEST_REDIS_URL")
	t.Cleanup(func() {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return
		}
		client := redis.NewClient(opts)
		defer client.Close()

		ctx := context.Background()
		iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	})
	return prefix
}
