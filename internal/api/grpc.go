package api

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// GRPCServer exposes the standard gRPC health and reflection services so
// orchestrators can probe the process without a dedicated contract.
type GRPCServer struct {
	port   int
	server *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewGRPCServer creates the gRPC endpoint.
func NewGRPCServer(port int, log *slog.Logger) *GRPCServer {
	if log == nil {
		log = slog.Default()
	}

	srv := grpc.NewServer()
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthSrv)
	reflection.Register(srv)

	return &GRPCServer{
		port:   port,
		server: srv,
		health: healthSrv,
		log:    log.With("component", "grpc"),
	}
}

// Start listens on the configured port and serves until Stop is called.
func (g *GRPCServer) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port %d: %w", g.port, err)
	}

	g.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	g.log.Info("grpc server listening", "port", g.port)
	if err := g.server.Serve(listener); err != nil {
		return fmt.Errorf("grpc server stopped: %w", err)
	}
	return nil
}

// SetServing flips the reported health status.
func (g *GRPCServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
}

// Stop drains in-flight RPCs and shuts the server down.
func (g *GRPCServer) Stop() {
	g.SetServing(false)
	g.server.GracefulStop()
}
