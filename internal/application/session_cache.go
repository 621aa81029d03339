package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/skinsync/pkg/helpers"
)

// SessionCache remembers the live session id of each user so Resolve can
// skip the token lookup.
type SessionCache interface {
	// Get returns an empty sid when nothing is cached.
	Get(ctx context.Context, userID string) (sid, username string, err error)
	Put(ctx context.Context, userID, username, sid string, ttl time.Duration) error
	Drop(ctx context.Context, userID string) error
}

// RedisSessionCache stores one hash per user under user:session:<id>.
type RedisSessionCache struct {
	Client *redis.Client
	Now    func() time.Time
}

func NewRedisSessionCache(rdb *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{Client: rdb, Now: time.Now}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func (c *RedisSessionCache) Get(ctx context.Context, userID string) (string, string, error) {
	data, err := c.Client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return "", "", err
	}
	return data["sid"], data["username"], nil
}

func (c *RedisSessionCache) Put(ctx context.Context, userID, username, sid string, ttl time.Duration) error {
	key := sessionKey(userID)
	pipe := c.Client.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"username":   username,
		"sid":        sid,
		"logged_in":  true,
		"updated_at": c.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisSessionCache) Drop(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, c.Client, sessionKey(userID))
}
