// Package oauthinfra holds the StateManager implementation backing the
// OAuth handshake's anti-CSRF challenge.
package oauthinfra

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStateManager implements auth.StateManager. Each Generate call stores
// its state under its own key, so concurrently initiated flows never share
// state the way a single process-global variable would; Verify deletes the
// key on success, making a state value single-use.
type RedisStateManager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateManager(client *redis.Client, ttl time.Duration) *RedisStateManager {
	return &RedisStateManager{client: client, ttl: ttl}
}

func stateKey(state string) string { return "oauth_state:" + state }

func (m *RedisStateManager) Generate(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := m.client.Set(ctx, stateKey(state), "1", m.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (m *RedisStateManager) Verify(ctx context.Context, state string) (bool, error) {
	n, err := m.client.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
