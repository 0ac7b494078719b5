package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized 是所有鉴权失败对外的统一信号。
// 内部细分原因只用于日志和测试，不能泄露到响应里。
var ErrUnauthorized = errors.New("unauthorized")

var (
	// ErrTokenInvalid token 格式错误或签名校验失败
	ErrTokenInvalid = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	// ErrTokenExpired token 自带的过期时间已过
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	// ErrSessionRevoked 签名有效但 Redis 里没有会话记录（已登出或被顶下线）
	ErrSessionRevoked = fmt.Errorf("%w: session revoked", ErrUnauthorized)
	// ErrStoreUnavailable Redis 在重试预算内不可达，按无权限处理（fail closed）
	ErrStoreUnavailable = fmt.Errorf("%w: session store unavailable", ErrUnauthorized)
)
