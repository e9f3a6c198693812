package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"graphql-user-service/cmd/api/di"
	"graphql-user-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config    *config.Config
	Logger    *zap.Logger
	Container *di.Container
	GRPC      *grpc.Server
	HTTP      *http.Server
}

// New creates a new server instance
func New(c *di.Container) *Server {
	return &Server{
		Config:    c.Config,
		Logger:    c.Logger,
		Container: c,
		GRPC:      SetupGRPC(c.Health, c.RateLimiter, c.Logger),
		HTTP:      SetupGinServer(c, ":"+c.Config.App.HTTPPort, c.Logger),
	}
}

// Run serves HTTP and gRPC until ctx is canceled or a server fails, then shuts
// both down within SHUTDOWN_TIMEOUT_SECONDS.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	grpcLis, err := lc.Listen(ctx, "tcp", s.grpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.grpcAddress(), err)
	}
	httpLis, err := lc.Listen(ctx, "tcp", s.HTTP.Addr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("HTTP server running", zap.String("address", httpLis.Addr().String()))
		if err := s.HTTP.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.Container.Health.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown stops both servers, bounded by the configured timeout.
func (s *Server) shutdown() error {
	timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))
	s.Container.Health.Shutdown()

	var errs []error
	if err := s.HTTP.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.Logger.Warn("gRPC graceful stop timed out, forcing")
		s.GRPC.Stop()
	}

	return errors.Join(errs...)
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}
