package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testUser() User {
	unitID := uint(3)
	unitName := "流浪猫救助站"
	roleName := "admin"
	return User{
		ID:       42,
		Username: "admin",
		Name:     "系统管理员",
		Role:     "admin",
		RoleName: &roleName,
		UnitID:   &unitID,
		UnitName: &unitName,
	}
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	user, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if user.ID != 42 || user.Username != "admin" {
		t.Errorf("decoded user = %+v", user)
	}
	if user.RoleName == nil || *user.RoleName != "admin" {
		t.Errorf("role_name not round-tripped: %+v", user.RoleName)
	}
	if user.UnitID == nil || *user.UnitID != 3 {
		t.Errorf("unit_id not round-tripped: %+v", user.UnitID)
	}
}

func TestDecodeDefaultTTL(t *testing.T) {
	codec := NewCodec("test-secret", 0)
	if codec.TTL() != 7*24*time.Hour {
		t.Errorf("TTL() = %v, want 168h", codec.TTL())
	}
}

func TestDecodeTamperedToken(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// 改掉签名的第一个字符
	parts := strings.Split(token, ".")
	sig := parts[2]
	flipped := "A"
	if sig[0] == 'A' {
		flipped = "B"
	}
	tampered := parts[0] + "." + parts[1] + "." + flipped + sig[1:]

	if _, err := codec.Decode(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Decode(tampered) = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	token, err := NewCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewCodec("secret-b", time.Hour).Decode(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Decode with wrong secret = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	codec := &Codec{secret: []byte("test-secret"), ttl: -time.Hour}
	token, err := codec.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = codec.Decode(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Decode(expired) = %v, want ErrTokenExpired", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired error should collapse to ErrUnauthorized, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	for _, input := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat("x", 4096)} {
		if _, err := codec.Decode(input); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Decode(%q) = %v, want ErrUnauthorized", input, err)
		}
	}
}
