package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphql-user-service/cmd/api/di"
	ginrouter "graphql-user-service/internal/adapter/gin/router"
)

// SetupGinServer creates the HTTP server carrying /graphql, /health and /metrics
func SetupGinServer(c *di.Container, addr string, l *zap.Logger) *http.Server {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(c.GraphQLHandler, ginrouter.Options{
		RateLimiter: c.RateLimiter,
		Metrics:     c.Metrics,
		ServiceName: c.Config.Logger.ServiceName,
	}, l)

	l.Info("HTTP server configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
