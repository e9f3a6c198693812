package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64 // Refill rate of each bucket
	BurstCapacity     int     // Bucket size
	Enabled           bool
}

// tokenBucket refills KEYS[1] at ARGV[1] tokens/s up to ARGV[2] and takes one
// token at time ARGV[3]. Returns 1 when the token was granted.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiter implements a Redis token bucket shared by the gRPC and HTTP servers.
type RateLimiter struct {
	client redis.UniversalClient
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client redis.UniversalClient, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Enabled reports whether requests are being limited.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Enabled && rl.client != nil
}

// Config returns the limiter settings.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// bucketTTL keeps an idle bucket long enough to refill completely.
func (rl *RateLimiter) bucketTTL() int {
	if rl.config.RequestsPerSecond <= 0 {
		return 60
	}
	return int(math.Ceil(float64(rl.config.BurstCapacity)/rl.config.RequestsPerSecond)) + 1
}

// Allow takes one token from the bucket identified by key. Redis failures allow
// the request.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if !rl.Enabled() {
		return true
	}

	now := float64(rl.now().UnixMicro()) / 1e6
	allowed, err := tokenBucket.Run(ctx, rl.client, []string{"ratelimit:tb:" + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
		rl.bucketTTL(),
	).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, allowing request", zap.String("key", key), zap.Error(err))
		return true
	}

	if allowed == 0 {
		rl.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Float64("requests_per_second", rl.config.RequestsPerSecond),
			zap.Int("burst", rl.config.BurstCapacity),
		)
		return false
	}
	return true
}

// UnaryInterceptor returns a gRPC unary interceptor keyed by method and client address.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Enabled() {
			return handler(ctx, req)
		}

		key := fmt.Sprintf("%s:%s", info.FullMethod, clientIP(ctx))
		if !rl.Allow(ctx, key) {
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %.2f requests/second (burst capacity: %d)",
				rl.config.RequestsPerSecond, rl.config.BurstCapacity)
		}
		return handler(ctx, req)
	}
}

// clientIP extracts the client address from the gRPC context.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}
