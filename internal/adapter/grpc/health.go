// Package grpc exposes the service's gRPC surface: the standard health service
// driven by database reachability.
package grpc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service entry reported alongside the overall status.
const ServiceName = "graphql-user-service"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthMonitor periodically pings the database and publishes the result
// through grpc.health.v1.Health.
type HealthMonitor struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	serving bool
	stopped bool
}

// NewHealthMonitor creates a monitor that starts in NOT_SERVING until the first
// successful check.
func NewHealthMonitor(p Pinger, interval time.Duration, log *zap.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	m := &HealthMonitor{
		server:   health.NewServer(),
		pinger:   p,
		interval: interval,
		timeout:  interval / 2,
		log:      log,
	}
	m.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return m
}

// Server returns the health service to register on a grpc.Server.
func (m *HealthMonitor) Server() *health.Server {
	return m.server
}

// Serving reports the result of the last check.
func (m *HealthMonitor) Serving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serving
}

// Check pings the database once and updates the published status.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return false
	}
	changed := m.serving != (err == nil)
	m.serving = err == nil
	m.mu.Unlock()

	if err != nil {
		if changed {
			m.log.Warn("database unreachable, reporting NOT_SERVING", zap.Error(err))
		}
		m.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}

	if changed {
		m.log.Info("database reachable, reporting SERVING")
	}
	m.set(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Run checks immediately and then on every interval until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING permanently; later checks are ignored.
func (m *HealthMonitor) Shutdown() {
	m.mu.Lock()
	m.serving = false
	m.stopped = true
	m.mu.Unlock()
	m.server.Shutdown()
}

func (m *HealthMonitor) set(status healthpb.HealthCheckResponse_ServingStatus) {
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
}
