package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/handler"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	background []func(ctx context.Context)
	logger     *logger.Logger
}

// Option adds behaviour to the server returned by [NewServer].
type Option func(*server)

// WithBackground runs job in its own goroutine for the lifetime of the
// server. The job's context is cancelled on shutdown.
func WithBackground(job func(ctx context.Context)) Option {
	return func(s *server) {
		s.background = append(s.background, job)
	}
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, opts ...Option) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		g, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			return nil, err
		}
		servers.gRPCServer = g
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	for _, opt := range opts {
		opt(servers)
	}

	return servers, nil
}

// RunServer blocks until SIGTERM, SIGINT or SIGQUIT, then shuts down.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}
	if s.gRPCServer != nil {
		s.gRPCServer.Shutdown()
	}
}

func (s *server) run(ctx context.Context) {
	jobsCtx, cancelJobs := context.WithCancel(ctx)
	for _, job := range s.background {
		go job(jobsCtx)
	}

	if s.httpServer != nil {
		s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.gRPCServer != nil {
		s.logger.Info().Str("address", s.gRPCServer.gRPCNetListener.Addr().String()).Msg("launching gRPC server")
		go s.gRPCServer.RunServer()
	}

	<-ctx.Done()

	cancelJobs()
	s.Shutdown()
	s.logger.Info().Msg("server shut down gracefully")
}
