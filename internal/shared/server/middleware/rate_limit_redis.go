package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixed window: INCR, start the window on first hit, report the remaining TTL.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if current > tonumber(ARGV[2]) then
  return {0, ttl}
end
return {1, ttl}
`

// RedisLimiter shares rate limit windows across API instances.
type RedisLimiter struct {
	client redis.Scripter
	script *redis.Script
	prefix string
}

func NewRedisLimiter(client redis.Scripter, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		prefix: prefix,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration, error) {
	if key == "" || rule.Limit <= 0 || rule.Window <= 0 {
		return true, 0, nil
	}
	ttl := rule.Window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := l.script.Run(ctx, l.client, []string{l.prefix + key}, ttl, rule.Limit).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	return res[0] == 1, time.Duration(res[1]) * time.Millisecond, nil
}
