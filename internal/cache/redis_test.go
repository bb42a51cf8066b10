package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisProvider, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	provider, err := NewRedisProvider(context.Background(), RedisConfig{Addr: server.Addr()})
	if err != nil {
		t.Fatalf("NewRedisProvider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Close() })
	return provider, server
}

func TestRedisProviderRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider, server := newTestRedis(t)

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
	if err := provider.Set(ctx, "graph", []byte(`{"nodes":[]}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := provider.Get(ctx, "graph")
	if err != nil || string(got) != `{"nodes":[]}` {
		t.Fatalf("unexpected value %q (%v)", got, err)
	}

	server.FastForward(2 * time.Minute)
	if _, err := provider.Get(ctx, "graph"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestRedisProviderSetNX(t *testing.T) {
	ctx := context.Background()
	provider, _ := newTestRedis(t)

	ok, err := provider.SetNX(ctx, "lock", []byte("1"), time.Second)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to win: %v %v", ok, err)
	}
	ok, err = provider.SetNX(ctx, "lock", []byte("2"), time.Second)
	if err != nil || ok {
		t.Fatalf("expected second SetNX to lose: %v %v", ok, err)
	}
	if err := provider.Del(ctx, "lock"); err != nil {
		t.Fatalf("del: %v", err)
	}
}

func TestNewRedisProviderRequiresAddr(t *testing.T) {
	if _, err := NewRedisProvider(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
