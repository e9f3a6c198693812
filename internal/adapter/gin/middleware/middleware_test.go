package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	grpcmiddleware "graphql-user-service/internal/adapter/grpc/middleware"
	"graphql-user-service/pkg/logger"
	"graphql-user-service/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/ping", nil)
	generated := w.Header().Get(logger.RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, seen)

	w = do(r, http.MethodGet, "/ping", http.Header{logger.RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(logger.RequestIDHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"errors":[{"message":"internal server error"}]}`, w.Body.String())
	entries := logs.FilterMessage("panic recovered in http handler").All()
	require.Len(t, entries, 1)
	assert.Equal(t, w.Header().Get(logger.RequestIDHeader), entries[0].ContextMap()["request_id"])
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	do(r, http.MethodGet, "/ok", nil)
	do(r, http.MethodGet, "/bad", nil)
	do(r, http.MethodGet, "/fail", nil)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusBadRequest), entries[1].ContextMap()["status"])
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/health", nil)
	do(r, http.MethodGet, "/health", nil)
	do(r, http.MethodGet, "/missing", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/health", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New()
	limiter := grpcmiddleware.NewRateLimiter(client, grpcmiddleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstCapacity:     2,
		Enabled:           true,
	}, zaptest.NewLogger(t))

	r := gin.New()
	r.Use(RateLimiter(limiter, m))
	r.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/graphql", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/graphql", nil).Code)

	w := do(r, http.MethodPost, "/graphql", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil, nil))
	r.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/graphql", nil).Code)
	}
}
