package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/config"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// tokenBucketScript refills the bucket at KEYS[1] by whole intervals, then
// takes one token if available. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
    tokens = capacity
    last_refill = now_ms
end

if interval_ms > 0 then
    local elapsed = math.max(0, now_ms - last_refill)
    local intervals = math.floor(elapsed / interval_ms)
    if intervals > 0 then
        tokens = math.min(capacity, tokens + intervals)
        last_refill = last_refill + (intervals * interval_ms)
    end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry_after_ms = interval_ms - (now_ms - last_refill)
    if retry_after_ms < 0 then retry_after_ms = 0 end
end

redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimiter throttles requests per client IP and route with a Redis token
// bucket. When Redis is unavailable requests are let through.
type RateLimiter struct {
	cfg    config.RateLimitConfig
	client redis.Scripter
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds a limiter. A nil client disables limiting.
func NewRateLimiter(cfg config.RateLimitConfig, client redis.Scripter, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{cfg: cfg, client: client, logger: logger, now: time.Now}
}

// Handler returns the Fiber middleware.
func (rl *RateLimiter) Handler() fiber.Handler {
	if rl == nil || !rl.cfg.Enabled || rl.client == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		key := rl.key(c)
		args := []interface{}{
			rl.now().UnixMilli(),
			rl.cfg.Capacity,
			rl.cfg.RefillInterval.Milliseconds(),
			int64(math.Max(1, rl.cfg.TTL.Seconds())),
		}

		vals, err := tokenBucketScript.Run(c.UserContext(), rl.client, []string{key}, args...).Int64Slice()
		if err != nil || len(vals) != 3 {
			rl.logger.Warn("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			return c.Next()
		}
		allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Capacity))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return apperrors.NewTooManyRequests(secs)
		}
		return c.Next()
	}
}

func (rl *RateLimiter) key(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	route := fmt.Sprintf("%s %s", c.Method(), c.Path())
	return strings.Join([]string{rl.cfg.Prefix, "ip", ip, "route", route}, ":")
}
