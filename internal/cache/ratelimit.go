package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// bucket describes one family of token buckets.
type bucket struct {
	name string
	ttl  time.Duration
}

var (
	ipBucket    = bucket{name: "ratelimit:ip", ttl: 10 * time.Second}
	loginBucket = bucket{name: "ratelimit:login", ttl: 15 * time.Minute}
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and takes one token atomically. Time comes from
// the Redis server so every API instance shares one clock.
//
// KEYS[1] bucket key
// ARGV[1] refill rate in tokens per millisecond
// ARGV[2] capacity
// ARGV[3] ttl in milliseconds
// Returns {allowed, remaining, retry_after_ms, full_in_ms}.
var tokenBucketScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call('TIME')
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now

tokens = math.min(capacity, tokens + math.max(0, now - ts) * rate)

local allowed = 0
local retry = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
else
	retry = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', now)
redis.call('PEXPIRE', KEYS[1], ttl)

return {allowed, math.floor(tokens), retry, math.ceil((capacity - tokens) / rate)}
`)

// CheckIPRateLimit takes one token from the bucket of a client address.
// ratePerSecond is the sustained rate, burst the bucket capacity.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	return c.take(ctx, ipBucket, ip, float64(ratePerSecond)/1000, burst)
}

// CheckLoginRateLimit throttles credential checks for a single login.
// ratePerMinute is the sustained rate of attempts, burst the number of
// attempts allowed back to back.
func (c *Cache) CheckLoginRateLimit(ctx context.Context, login string, ratePerMinute, burst int) (*RateLimitResult, error) {
	return c.take(ctx, loginBucket, login, float64(ratePerMinute)/60_000, burst)
}

// take runs the token bucket for subject. A non-positive rate or burst
// disables the limit, and Redis failures let the request through.
func (c *Cache) take(ctx context.Context, b bucket, subject string, perMilli float64, burst int) (*RateLimitResult, error) {
	if perMilli <= 0 || burst <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst)}, nil
	}

	key := c.key(b.name, hashKey(subject))
	res, err := tokenBucketScript.Run(ctx, c.client, []string{key}, perMilli, burst, b.ttl.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 4 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst)}, nil
	}

	now := time.Now()
	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  res[1],
		RetryAfter: roundUpToSecond(time.Duration(res[2]) * time.Millisecond),
		ResetAt:    now.Add(time.Duration(res[3]) * time.Millisecond),
	}, nil
}

// roundUpToSecond keeps Retry-After from advertising zero seconds while a
// client is still throttled.
func roundUpToSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}

// hashKey returns a short SHA-256 digest of an address or login so raw
// values never land in Redis.
func hashKey(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:8])
}
