package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"graphql-user-service/cmd/api/di"
	"graphql-user-service/cmd/api/infrastructure"
	"graphql-user-service/cmd/api/server"
	"graphql-user-service/internal/config"
	"graphql-user-service/pkg/logger"
)

// App represents the application
type App struct {
	Config *config.Config
	Logger *zap.Logger
}

// New loads configuration from configPath and builds the logger
func New(configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &App{Config: cfg, Logger: l}, nil
}

// Serve wires every dependency and runs the servers until ctx is canceled
func (a *App) Serve(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("application panic: %v", r)
		}
	}()

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
	)

	container, err := di.NewContainer(ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	runErr := server.New(container).Run(ctx)

	a.Logger.Info("closing container resources")
	closeErr := container.Close()
	if closeErr != nil {
		a.Logger.Error("failed to close container", zap.Error(closeErr))
	}

	a.Logger.Info("application shutdown complete")
	return errors.Join(runErr, closeErr)
}

// Migrate applies pending migrations, or logs their status when statusOnly is set
func (a *App) Migrate(ctx context.Context, statusOnly bool) error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.OpenDatabase(a.Config, a.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := infrastructure.CloseDatabase(db); err != nil {
			a.Logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if statusOnly {
		return infrastructure.MigrationStatus(ctx, db, a.Config, a.Logger)
	}
	return infrastructure.Migrate(ctx, db, a.Config, a.Logger)
}

// Sync flushes buffered log entries, ignoring the errors stdout and stderr report
func (a *App) Sync() error {
	if err := a.Logger.Sync(); err != nil && !logger.IsSyncNoise(err) {
		return fmt.Errorf("logger sync: %w", err)
	}
	return nil
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Environment,
	})
}
