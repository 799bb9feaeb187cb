package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr(), prefix)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "rustprint:")

	if err := c.Set(ctx, "analysis:abc", []byte(`{"packages":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("rustprint:analysis:abc") {
		t.Errorf("keys = %v, want prefixed key", mr.Keys())
	}
	data, hit, err := c.Get(ctx, "analysis:abc")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != `{"packages":[]}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "analysis:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, err := c.Get(ctx, "analysis:abc"); hit || err != nil {
		t.Errorf("Get after Delete = %v, %v; want clean miss", hit, err)
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "rustprint:")

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)
	mr.FastForward(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry should expire after its ttl")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, "rustprint:")

	for _, k := range []string{"analysis:a", "analysis:b", "http:c"} {
		_ = c.Set(ctx, k, []byte("v"), time.Hour)
	}
	// Keys outside the prefix belong to someone else.
	_ = mr.Set("other:key", "keep")

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d keys, want 3", n)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other:key" {
		t.Errorf("remaining keys = %v", keys)
	}
}

func TestRedisCacheClearRequiresPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, "")
	defer c.Close()

	_ = c.Set(ctx, "shared", []byte("v"), 0)
	n, err := c.Clear(ctx)
	if err == nil {
		t.Fatal("Clear without a prefix should fail")
	}
	if n != 0 || !mr.Exists("shared") {
		t.Errorf("Clear touched the database: removed %d, keys %v", n, mr.Keys())
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "not a url", "p:"); err == nil {
		t.Error("invalid url should fail")
	}

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := NewRedisCache(ctx, "redis://"+addr, "p:"); err == nil {
		t.Error("unreachable server should fail the ping")
	}
}
