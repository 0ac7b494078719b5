package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb), m
}

func TestStorePutGetDel(t *testing.T) {
	store, m := newTestStore(t)
	ctx := context.Background()

	key := TokenKey("abc")
	if err := store.Put(ctx, key, "payload", time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	value, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: value=%q ok=%v err=%v", value, ok, err)
	}
	if value != "payload" {
		t.Errorf("Get = %q, want %q", value, "payload")
	}

	// TTL 必须落到 key 上
	if ttl := m.TTL(key); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	if err := store.Del(ctx, key); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Error("key still present after Del")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	value, ok, err := store.Get(context.Background(), TokenKey("nope"))
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Get missing = (%q, %v), want empty/false", value, ok)
	}
}

func TestStoreDelMissing(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Del(context.Background(), TokenKey("nope")); err != nil {
		t.Errorf("Del missing key should succeed, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store, m := newTestStore(t)
	ctx := context.Background()

	key := UserKey(7)
	if err := store.Put(ctx, key, "token", time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	m.FastForward(2 * time.Minute)

	if _, ok, err := store.Get(ctx, key); ok || err != nil {
		t.Errorf("Get after expiry = ok=%v err=%v, want miss without error", ok, err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store, m := newTestStore(t)
	m.Close()

	_, _, err := store.Get(context.Background(), TokenKey("abc"))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Get with closed redis = %v, want ErrStoreUnavailable", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("store error should collapse to ErrUnauthorized, got %v", err)
	}
}

func TestKeyNamespaces(t *testing.T) {
	if got := TokenKey("abc"); got != "auth:token:abc" {
		t.Errorf("TokenKey = %q", got)
	}
	if got := UserKey(42); got != "auth:user:42" {
		t.Errorf("UserKey = %q", got)
	}
}
