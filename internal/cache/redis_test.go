package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisURL returns the test server URL or skips the test.
func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("CONNECT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: CONNECT_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	prefix := fmt.Sprintf("connect-test-%d:", time.Now().UnixNano())
	c, err := NewRedisCacheFromURL(redisURL(t), prefix, time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	return c
}

func TestRedisCache_FeedInvalidation(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < unlinkBatch+5; i++ {
		if err := c.Set(ctx, fmt.Sprintf("feed:news:%d", i), []byte("v"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	_ = c.Set(ctx, "avatar:thumb:1", []byte("png"), 0)

	if err := c.DeleteByPrefix(ctx, "feed:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if _, err := c.Get(ctx, "feed:news:0"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after sweep = %v, want ErrCacheMiss", err)
	}
	if ok, _ := c.Has(ctx, "avatar:thumb:1"); !ok {
		t.Error("sweep removed a key outside the prefix")
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if s := c.Stats(); s.Misses != 1 || s.Sets != unlinkBatch+6 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestRedisCache_Closed(t *testing.T) {
	c := newRedisCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "x:", time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get = %v, want ErrCacheClosed", err)
	}
	if err := c.DeleteByPrefix(context.Background(), "feed:"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("DeleteByPrefix = %v, want ErrCacheClosed", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping = %v, want ErrCacheClosed", err)
	}
}

func TestNewRedisCache_BadConfig(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewRedisCache(RedisCacheOptions{URL: "http://not-redis"}); err == nil {
		t.Error("expected error for non-redis scheme")
	}
}
