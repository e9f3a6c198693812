package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"graphql-user-service/cmd/api/infrastructure"
	"graphql-user-service/internal/adapter/cache"
	"graphql-user-service/internal/adapter/db/gormrepo"
	ginhandler "graphql-user-service/internal/adapter/gin/handler"
	"graphql-user-service/internal/adapter/graphql"
	grpcadapter "graphql-user-service/internal/adapter/grpc"
	"graphql-user-service/internal/adapter/grpc/middleware"
	"graphql-user-service/internal/adapter/repository/cached"
	"graphql-user-service/internal/config"
	"graphql-user-service/internal/usecase/user"
	"graphql-user-service/pkg/metrics"
	redisclient "graphql-user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *gorm.DB
	RedisClient    *redisclient.Client // nil when Redis is disabled
	UserService    user.Service
	Schema         *graphql.Schema
	RateLimiter    *middleware.RateLimiter // nil when Redis is disabled
	Metrics        *metrics.Metrics
	Health         *grpcadapter.HealthMonitor
	GraphQLHandler *ginhandler.GraphQLHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c := &Container{Config: cfg, Logger: l, DB: db}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	store := gormrepo.NewUserRepo(db, l)
	var repo user.Repository = store
	if rdb != nil {
		userCache := cache.NewRedisUserCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
		repo = cached.NewUserRepository(store, userCache, l)

		c.RateLimiter = middleware.NewRateLimiter(rdb.Client, middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		}, l)
	}

	c.UserService = user.New(repo, l)

	schema, err := graphql.NewSchema(c.UserService, l, cfg.App.GraphQLMaxDepth)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Schema = schema

	c.Metrics = metrics.New()
	c.GraphQLHandler = ginhandler.NewGraphQLHandler(schema, c.Metrics, l)
	c.Health = grpcadapter.NewHealthMonitor(store,
		time.Duration(cfg.App.HealthCheckIntervalSeconds)*time.Second, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
