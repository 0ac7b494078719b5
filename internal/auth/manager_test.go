package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T) (*Manager, *Store) {
	t.Helper()
	store, _ := newTestStore(t)
	codec := NewCodec("test-secret", time.Hour)
	return NewManager(codec, store), store
}

func TestLoginResolveRoundTrip(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("Login returned empty token")
	}

	user, err := manager.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != 42 || user.Username != "admin" {
		t.Errorf("resolved user = %+v", user)
	}
}

func TestSecondLoginRevokesFirst(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	first, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	second, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}

	// 旧 token 被顶掉
	if _, err := manager.Resolve(ctx, first); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("Resolve(first) = %v, want ErrSessionRevoked", err)
	}
	// 新 token 有效
	if _, err := manager.Resolve(ctx, second); err != nil {
		t.Errorf("Resolve(second): %v", err)
	}
}

func TestLogoutRevokesSessionAndPointer(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := manager.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("Resolve after Logout = %v, want ErrSessionRevoked", err)
	}
	// 单点登录指针也要清掉
	if _, ok, _ := store.Get(ctx, UserKey(42)); ok {
		t.Error("user pointer still present after Logout")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := manager.Logout(ctx, token); err != nil {
			t.Errorf("Logout #%d: %v", i+1, err)
		}
	}
	// 从未登录过的 token 也不报错
	if err := manager.Logout(ctx, "never-issued"); err != nil {
		t.Errorf("Logout(unknown): %v", err)
	}
}

func TestResolveExpiredTokenDespiteStoreRecord(t *testing.T) {
	store, _ := newTestStore(t)
	expiredCodec := &Codec{secret: []byte("test-secret"), ttl: -time.Hour}
	manager := NewManager(NewCodec("test-secret", time.Hour), store)
	ctx := context.Background()

	// 签发一个已过期的 token，并伪造一条会话记录
	token, err := expiredCodec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	payload, _ := json.Marshal(testUser())
	if err := store.Put(ctx, TokenKey(token), string(payload), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// 签名校验在前：有记录也要拒
	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Resolve(expired) = %v, want ErrTokenExpired", err)
	}
}

func TestResolveForgedToken(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Resolve(context.Background(), "forged.token.value")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Resolve(forged) = %v, want ErrTokenInvalid", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("forged error should collapse to ErrUnauthorized, got %v", err)
	}
}

func TestResolveReturnsStoredSnapshot(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Redis 里的快照是权威数据：改掉它，Resolve 返回的应是改后的
	updated := testUser()
	updated.Name = "改名后的管理员"
	payload, _ := json.Marshal(updated)
	if err := store.Put(ctx, TokenKey(token), string(payload), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	user, err := manager.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.Name != "改名后的管理员" {
		t.Errorf("Resolve returned token snapshot, want store snapshot: %+v", user)
	}
}

func TestSessionLifecycle(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	tokA, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login A: %v", err)
	}
	tokB, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login B: %v", err)
	}
	if tokA == tokB {
		t.Fatal("second login returned the same token")
	}

	if _, err := manager.Resolve(ctx, tokA); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Resolve(tokA) = %v, want ErrUnauthorized", err)
	}
	user, err := manager.Resolve(ctx, tokB)
	if err != nil {
		t.Fatalf("Resolve(tokB): %v", err)
	}
	if user.ID != 42 {
		t.Errorf("Resolve(tokB).ID = %d, want 42", user.ID)
	}

	if err := manager.Logout(ctx, tokB); err != nil {
		t.Fatalf("Logout(tokB): %v", err)
	}
	if _, err := manager.Resolve(ctx, tokB); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Resolve(tokB) after logout = %v, want ErrUnauthorized", err)
	}
}

func TestResolveStoreUnavailable(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	store, m := newTestStore(t)
	manager := NewManager(codec, store)
	ctx := context.Background()

	token, err := manager.Login(ctx, testUser())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	m.Close()

	// Redis 不可达时 fail closed
	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Resolve with closed redis = %v, want ErrStoreUnavailable", err)
	}
}
