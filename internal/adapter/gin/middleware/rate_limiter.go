package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcmiddleware "graphql-user-service/internal/adapter/grpc/middleware"
	"graphql-user-service/pkg/metrics"
)

// RateLimiter returns a Gin middleware that takes one token per request from the
// caller's bucket, keyed by method, path and client IP.
func RateLimiter(limiter *grpcmiddleware.RateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		if limiter.Allow(c.Request.Context(), key) {
			c.Next()
			return
		}

		if m != nil {
			m.RateLimited.Inc()
		}
		cfg := limiter.Config()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"errors": []gin.H{{
				"message": fmt.Sprintf("rate limit exceeded: %.2f requests/second (burst capacity: %d)",
					cfg.RequestsPerSecond, cfg.BurstCapacity),
				"extensions": gin.H{"code": "RATE_LIMITED"},
			}},
		})
	}
}
