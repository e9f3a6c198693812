package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGraphQL(t *testing.T) {
	m := New()

	m.ObserveGraphQL("CreateUser", 10*time.Millisecond, nil)
	m.ObserveGraphQL("", time.Millisecond, []string{"NOT_FOUND", "NOT_FOUND"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLOps.WithLabelValues("CreateUser")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLOps.WithLabelValues("anonymous")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GraphQLErrors.WithLabelValues("NOT_FOUND")))
}

func TestObserveGraphQL_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveGraphQL("op", time.Second, []string{"x"}) })
}

func TestHandler(t *testing.T) {
	m := New()
	m.RateLimited.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_service_rate_limited_requests_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
