package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits on a key inside a fixed window.
type WindowCounter interface {
	// Hit records one hit and returns the hits so far in the current window
	// and the time left until that window closes.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisWindowCounter keeps one expiring counter per key. Every instance of
// the API shares the same windows.
type RedisWindowCounter struct {
	Client *redis.Client
}

// NewWindowCounter returns nil without a client so callers can skip limiting.
func NewWindowCounter(rdb *redis.Client) WindowCounter {
	if rdb == nil {
		return nil
	}
	return &RedisWindowCounter{Client: rdb}
}

// The window starts on the first hit. A key that lost its expiry is given
// a fresh one so it cannot block forever.
var windowHitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

func (r *RedisWindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := windowHitScript.Run(ctx, r.Client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("count hit %s: %w", key, err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("count hit %s: unexpected reply %v", key, res)
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}
