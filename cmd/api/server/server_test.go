package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"graphql-user-service/cmd/api/di"
	"graphql-user-service/internal/config"
)

func TestServer_RunAndShutdown(t *testing.T) {
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "users.db"))
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("GRPC_PORT", "0")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "2")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	c, err := di.NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s := New(c)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, c.Health.Serving, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, c.Health.Serving())
}
