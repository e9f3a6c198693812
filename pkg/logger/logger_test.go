package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	l, err := NewWithConfig(Config{
		Level:          "debug",
		Format:         "json",
		OutputPath:     path,
		ServiceName:    "graphql-user-service",
		ServiceVersion: "test",
		Environment:    "test",
	})
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	l.Info("hello")
	assert.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("bogus"))
}

func TestWithContext_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithContext(WithRequestID(context.Background(), "req-123"), base).Info("with id")
	WithContext(context.Background(), base).Info("without id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}

	t.Run("generates an id", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		require.NoError(t, err)
		_, parseErr := uuid.Parse(seen)
		assert.NoError(t, parseErr)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "from-caller"))
		_, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "from-caller", seen)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0.05, "warn")

	sql := func() (string, int64) { return "SELECT * FROM users", 0 }

	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found must not be logged as an error")

	gl.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm query error").Len())

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm slow query").Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("gorm query error").Len())
}

func TestGraphQLLogger_LogPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	gl := NewGraphQLLogger(zap.New(core))

	gl.LogPanic(WithRequestID(context.Background(), "req-9"), "resolver exploded")

	entries := logs.FilterMessage("graphql resolver panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "resolver exploded", entries[0].ContextMap()["panic"])
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestIsSyncNoise(t *testing.T) {
	assert.True(t, IsSyncNoise(errors.New("sync /dev/stdout: invalid argument")))
	assert.False(t, IsSyncNoise(errors.New("sync /var/log/app.log: no space left on device")))
}
