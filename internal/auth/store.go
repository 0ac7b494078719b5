package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/qilimazhualuo/cat-rescue/internal/config"

	"github.com/redis/go-redis/v9"
)

// 两个逻辑命名空间共用一个 Redis：
// auth:token:<token> -> 身份快照 JSON（会话记录）
// auth:user:<id>     -> 当前有效 token（单点登录指针）
const (
	tokenPrefix = "auth:token:"
	userPrefix  = "auth:user:"
)

// NewRedisClient 创建 Redis 客户端并做一次连通性检查。
// 重试策略对齐原部署：最多 3 次，退避 50ms 起、上限 2s。
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Store 会话存储：带 TTL 的 key-value 读写，Redis 不可达时统一报
// ErrStoreUnavailable，由调用方 fail closed。
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// TokenKey 会话记录键
func TokenKey(token string) string {
	return tokenPrefix + token
}

// UserKey 单点登录指针键
func UserKey(userID uint) string {
	return userPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Put 写入并重置 TTL
func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get 读取，key 不存在（含 TTL 过期）返回 ok=false 而不是错误
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, true, nil
}

// Del 删除，key 不存在时也算成功
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
