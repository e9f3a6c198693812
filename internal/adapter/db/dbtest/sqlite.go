// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"graphql-user-service/internal/adapter/db/migrations"
	"graphql-user-service/internal/config"
)

// NewSQLite returns a gorm handle on a private in-memory SQLite database with the
// schema migrated. It is closed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: sees an empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(context.Background(), sqlDB, config.DriverSQLite, zaptest.NewLogger(t)))
	return db
}
