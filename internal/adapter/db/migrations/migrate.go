// Package migrations applies the versioned SQL schema embedded in the binary.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"graphql-user-service/internal/config"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFiles embed.FS

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// ErrNoDatabase is returned when no database handle is given.
var ErrNoDatabase = errors.New("migrations: nil database")

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

// Fatalf logs without exiting. Every goose call used here also returns the
// failure, and callers act on that error.
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Errorf(format, v...) }

// Printf logs goose progress at info level.
func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }

// dialectFor maps a configured driver to the goose dialect and migration directory.
func dialectFor(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func prepare(db *sql.DB, driver string, log *zap.Logger) (string, error) {
	if db == nil {
		return "", ErrNoDatabase
	}
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{log: log.Named("migrate").Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return dir, nil
}

// Up applies every pending migration for driver.
func Up(ctx context.Context, db *sql.DB, driver string, log *zap.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(db, driver, log)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("database schema up to date", zap.String("driver", driver), zap.Int64("version", version))
	return nil
}

// Status logs the applied state of every migration for driver.
func Status(ctx context.Context, db *sql.DB, driver string, log *zap.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(db, driver, log)
	if err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}

// Version returns the current schema version recorded by goose.
func Version(ctx context.Context, db *sql.DB, driver string, log *zap.Logger) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := prepare(db, driver, log); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
