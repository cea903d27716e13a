package authinfra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prapeller/api-auth/pkg/kernel"
	"github.com/prapeller/api-auth/pkg/logx"
)

// RedisRefreshCache implements auth.RefreshCache. Redis is the sole source
// of truth for "is this refresh token still live"; TTL expiry is what
// realizes the session's logical timeout without a scan of the Session
// Store.
type RedisRefreshCache struct {
	client *redis.Client
}

func NewRedisRefreshCache(client *redis.Client) *RedisRefreshCache {
	return &RedisRefreshCache{client: client}
}

func cacheKey(sessionUUID kernel.SessionID) string {
	return "refresh:" + sessionUUID.String()
}

func (c *RedisRefreshCache) Set(ctx context.Context, sessionUUID kernel.SessionID, refreshToken string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(sessionUUID), refreshToken, ttl).Err(); err != nil {
		logx.WithFields(logx.Fields{"session_uuid": sessionUUID.String()}).Warnf("refresh cache set failed: %v", err)
		return nil // write errors are a no-op per the fail-closed design
	}
	return nil
}

func (c *RedisRefreshCache) Get(ctx context.Context, sessionUUID kernel.SessionID) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(sessionUUID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		logx.WithFields(logx.Fields{"session_uuid": sessionUUID.String()}).Warnf("refresh cache get failed: %v", err)
		return "", false, err // treated as revoked by the caller (fail-closed)
	}
	return val, true, nil
}

func (c *RedisRefreshCache) Delete(ctx context.Context, sessionUUID kernel.SessionID) error {
	if err := c.client.Del(ctx, cacheKey(sessionUUID)).Err(); err != nil {
		logx.WithFields(logx.Fields{"session_uuid": sessionUUID.String()}).Warnf("refresh cache delete failed: %v", err)
	}
	return nil
}
