package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims 自定义 JWT 负载：完整的用户身份快照 + 标准字段
type Claims struct {
	User
	jwt.RegisteredClaims
}

// Codec 负责签发和校验 JWT。
// 签名让网关不用查 Redis 就能拒掉伪造/明显过期的 token，
// Redis 那一步（Manager.Resolve）才是登出和单点登录生效的地方。
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec 创建 Codec，ttl <= 0 时默认 7 天
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL 返回 token 有效期（会话记录的 TTL 与之保持一致）
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue 为用户签发 JWT，负载覆盖快照的全部字段。
// jti 保证同一账号连续登录也拿到不同的 token（iat 只有秒级精度）。
func (c *Codec) Issue(user User) (string, error) {
	now := time.Now()
	claims := &Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode 解析并校验 JWT，返回身份快照。
// 任何非法输入都只返回错误，不会 panic：
// 签名不符/格式错误 -> ErrTokenInvalid，已过期 -> ErrTokenExpired。
func (c *Codec) Decode(tokenStr string) (*User, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	user := claims.User
	return &user, nil
}
