package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphql-user-service/internal/adapter/gin/handler"
	"graphql-user-service/internal/adapter/gin/middleware"
	grpcmiddleware "graphql-user-service/internal/adapter/grpc/middleware"
	"graphql-user-service/pkg/metrics"
)

// Options carries the optional collaborators of the router.
type Options struct {
	RateLimiter *grpcmiddleware.RateLimiter // nil disables rate limiting
	Metrics     *metrics.Metrics            // nil disables /metrics and request metrics
	ServiceName string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(graphqlHandler *handler.GraphQLHandler, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(opts.Metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.POST("/graphql", middleware.RateLimiter(opts.RateLimiter, opts.Metrics), graphqlHandler.Serve)

	return router
}
