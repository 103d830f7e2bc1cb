package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitUserPrefix is the Redis key prefix for per-user limits.
	rateLimitUserPrefix = "ratelimit:user:"
	// rateLimitIPPrefix is the Redis key prefix for per-IP limits.
	rateLimitIPPrefix = "ratelimit:ip:"
	rateLimitUserTTL  = 120 * time.Second
	rateLimitIPTTL    = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes one token atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- bucket capacity
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckUserRateLimit consumes one request from username's bucket.
// A zero ratePerMinute disables the limit.
func (c *Cache) CheckUserRateLimit(ctx context.Context, username string, ratePerMinute, burst int) (*RateLimitResult, error) {
	if ratePerMinute <= 0 {
		return allowAll(burst), nil
	}

	key := rateLimitUserPrefix + hashKey(username)
	return c.checkRateLimit(ctx, key, float64(ratePerMinute)/60.0, burst, int(rateLimitUserTTL.Seconds()))
}

// CheckIPRateLimit consumes one request from the bucket of ip.
// IPs are hashed to avoid storing raw addresses.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return allowAll(burst), nil
	}

	key := rateLimitIPPrefix + hashKey(ip)
	return c.checkRateLimit(ctx, key, float64(ratePerSecond), burst, int(rateLimitIPTTL.Seconds()))
}

// checkRateLimit fails open: on a Redis error the request is allowed and
// the error is returned for logging.
func (c *Cache) checkRateLimit(ctx context.Context, key string, rate float64, burst, ttl int) (*RateLimitResult, error) {
	now := time.Now().Unix()

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rate, burst, now, ttl,
	).Int64Slice()
	if err != nil {
		return allowAll(burst), fmt.Errorf("rate limit script: %w", err)
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Limit:      burst,
		Remaining:  result[2],
		ResetAt:    time.Now().Add(time.Duration(float64(time.Second) / rate)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

func allowAll(burst int) *RateLimitResult {
	return &RateLimitResult{
		Allowed:   true,
		Limit:     burst,
		Remaining: int64(burst),
		ResetAt:   time.Now().Add(time.Minute),
	}
}

// hashKey creates a truncated SHA256 hash for rate limit keys.
func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
