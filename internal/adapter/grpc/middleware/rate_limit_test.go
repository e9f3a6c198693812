package middleware

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

// testClock is a settable time source.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, cfg RateLimiterConfig) (*RateLimiter, *testClock, *miniredis.Miniredis) {
	client, mr := setupTestRedis(t)
	rl := NewRateLimiter(client, cfg, zaptest.NewLogger(t))
	clock := &testClock{t: time.Unix(1_700_000_000, 0)}
	rl.now = clock.Now
	return rl, clock, mr
}

// mockHandler is a simple handler that returns a fixed response
func mockHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "success", nil
}

func peerContext(addr string) context.Context {
	tcp, _ := net.ResolveTCPAddr("tcp", addr)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcp})
}

func TestRateLimiter_Allow_BurstThenDeny(t *testing.T) {
	rl, _, _ := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 5, BurstCapacity: 5, Enabled: true})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(ctx, "client-a"), "request %d", i)
	}
	assert.False(t, rl.Allow(ctx, "client-a"))
	assert.True(t, rl.Allow(ctx, "client-b"), "buckets are per key")
}

func TestRateLimiter_Allow_Refills(t *testing.T) {
	rl, clock, _ := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 2, Enabled: true})
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k"))
	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))

	clock.Advance(500 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "k"), "one token refilled after half a second")
	assert.False(t, rl.Allow(ctx, "k"))

	clock.Advance(10 * time.Second)
	assert.True(t, rl.Allow(ctx, "k"))
	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"), "refill is capped at burst capacity")
}

func TestRateLimiter_Allow_SetsTTL(t *testing.T) {
	rl, _, mr := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 4, Enabled: true})

	require.True(t, rl.Allow(context.Background(), "k"))

	ttl := mr.TTL("ratelimit:tb:k")
	assert.Equal(t, 3*time.Second, ttl)
}

func TestRateLimiter_Allow_FailsOpen(t *testing.T) {
	rl, _, mr := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: true})
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(context.Background(), "k"))
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl, _, _ := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: false})
	assert.False(t, rl.Enabled())

	interceptor := rl.UnaryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	for i := 0; i < 10; i++ {
		resp, err := interceptor(peerContext("127.0.0.1:12345"), nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}

	var nilLimiter *RateLimiter
	assert.False(t, nilLimiter.Enabled())
	assert.True(t, nilLimiter.Allow(context.Background(), "k"))
}

func TestRateLimiter_UnaryInterceptor_ExceedLimit(t *testing.T) {
	rl, _, mr := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 5, BurstCapacity: 3, Enabled: true})
	interceptor := rl.UnaryInterceptor()
	ctx := peerContext("127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	for i := 0; i < 3; i++ {
		resp, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}

	resp, err := interceptor(ctx, nil, info, mockHandler)
	require.Error(t, err)
	assert.Nil(t, resp)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.ResourceExhausted, st.Code())
	assert.Contains(t, st.Message(), "rate limit exceeded")
	assert.True(t, mr.Exists("ratelimit:tb:/grpc.health.v1.Health/Check:127.0.0.1:12345"))
}

func TestRateLimiter_UnaryInterceptor_KeysByClientAndMethod(t *testing.T) {
	rl, _, _ := newTestLimiter(t, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: true})
	interceptor := rl.UnaryInterceptor()
	check := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	list := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/List"}

	ctx1 := peerContext("192.168.1.1:12345")
	_, err := interceptor(ctx1, nil, check, mockHandler)
	require.NoError(t, err)
	_, err = interceptor(ctx1, nil, check, mockHandler)
	require.Error(t, err)

	_, err = interceptor(peerContext("192.168.1.2:12345"), nil, check, mockHandler)
	assert.NoError(t, err, "other clients keep their own bucket")

	_, err = interceptor(ctx1, nil, list, mockHandler)
	assert.NoError(t, err, "other methods keep their own bucket")
}

func TestClientIP(t *testing.T) {
	xff := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "203.0.113.1"))
	assert.Equal(t, "203.0.113.1", clientIP(xff))

	xri := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "203.0.113.2"))
	assert.Equal(t, "203.0.113.2", clientIP(xri))

	assert.Equal(t, "10.0.0.1:5000", clientIP(peerContext("10.0.0.1:5000")))
	assert.Equal(t, "unknown", clientIP(context.Background()))
}
