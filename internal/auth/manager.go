package auth

import (
	"context"
	"encoding/json"
	"log"
)

// Manager 把 Codec 和 Store 串起来，维护"每个账号至多一个有效会话"：
// 登录签发、登出吊销、按请求解析身份。进程启动时构造一次，注入使用。
type Manager struct {
	codec *Codec
	store *Store
}

func NewManager(codec *Codec, store *Store) *Manager {
	return &Manager{
		codec: codec,
		store: store,
	}
}

// Login 为已通过密码校验的用户创建会话，返回新 token。
// 如果该账号已有会话，先删掉旧的（单点登录：后登录的顶掉先登录的）。
// 先删后写；两次写入之间的崩溃只会留下一条等 TTL 自然过期的孤儿记录，
// 不值得为此引入事务。
func (m *Manager) Login(ctx context.Context, user User) (string, error) {
	userKey := UserKey(user.ID)

	// 删除旧会话，出错或不存在都不阻塞登录
	oldToken, ok, err := m.store.Get(ctx, userKey)
	if err != nil {
		log.Printf("login: read old token for user %d: %v", user.ID, err)
	}
	if ok && oldToken != "" {
		if err := m.store.Del(ctx, TokenKey(oldToken)); err != nil {
			log.Printf("login: delete old session for user %d: %v", user.ID, err)
		}
		if err := m.store.Del(ctx, userKey); err != nil {
			log.Printf("login: delete old pointer for user %d: %v", user.ID, err)
		}
	}

	token, err := m.codec.Issue(user)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return "", err
	}

	ttl := m.codec.TTL()
	if err := m.store.Put(ctx, TokenKey(token), string(payload), ttl); err != nil {
		return "", err
	}
	if err := m.store.Put(ctx, userKey, token, ttl); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve 解析 token 对应的身份。
// 先验签名和过期（不用查 Redis 就能拒掉伪造/过期 token），
// 再查 Redis：记录不在就视为已吊销——登出和顶号正是靠这一步生效。
// Redis 里的快照是权威数据，返回的是它而不是 token 里解出来的那份。
func (m *Manager) Resolve(ctx context.Context, token string) (*User, error) {
	if _, err := m.codec.Decode(token); err != nil {
		return nil, err
	}

	payload, ok, err := m.store.Get(ctx, TokenKey(token))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionRevoked
	}

	var user User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, ErrSessionRevoked
	}
	return &user, nil
}

// Logout 吊销 token 对应的会话。token 已失效或不存在时也算成功（幂等）。
func (m *Manager) Logout(ctx context.Context, token string) error {
	tokenKey := TokenKey(token)

	payload, ok, err := m.store.Get(ctx, tokenKey)
	if err != nil {
		return err
	}
	if ok {
		var user User
		if err := json.Unmarshal([]byte(payload), &user); err == nil {
			if err := m.store.Del(ctx, UserKey(user.ID)); err != nil {
				return err
			}
		}
	}

	return m.store.Del(ctx, tokenKey)
}
