package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "graphql-user-service/internal/adapter/grpc"
	"graphql-user-service/internal/adapter/grpc/middleware"
	"graphql-user-service/pkg/logger"
)

// SetupGRPC creates the gRPC server exposing the health service and reflection
func SetupGRPC(health *grpcadapter.HealthMonitor, rateLimiter *middleware.RateLimiter, l *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, health.Server())
	reflection.Register(grpcServer)

	l.Debug("gRPC services registered", zap.Int("count", len(grpcServer.GetServiceInfo())))
	return grpcServer
}
