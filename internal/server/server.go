// Package server exposes the Fibonacci device over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/device"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
)

// Server is the HTTP front end of a device. Every /fib request opens a
// device session, so concurrent computations are refused with 503.
type Server struct {
	device         *device.Device
	factory        fibonacci.CalculatorFactory
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a Server for dev. factory backs the /algorithms
// listing.
//
// Parameters:
//   - dev: The device every /fib request goes through.
//   - factory: The calculator registry listed by /algorithms.
//   - cfg: The application configuration (port, request timeout).
//   - opts: Optional functional options (e.g., WithLogger).
//
// Returns:
//   - *Server: A pointer to the initialized Server.
func NewServer(dev *device.Device, factory fibonacci.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	timeouts := DefaultServerTimeouts()
	if cfg.RequestTimeout > 0 {
		timeouts.RequestTimeout = cfg.RequestTimeout
	}
	s := &Server{
		device:         dev,
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       timeouts,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fib/{k}", s.wrapWithMiddleware(s.handleFib))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/algorithms", s.wrapWithMiddleware(s.handleAlgorithms))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))
	return mux
}

// wrapWithMiddleware applies Security -> RequestID -> Logging -> Metrics.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port until ctx is done or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener. It takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.String("algorithm", s.device.Algorithm()),
			logging.Int64("max_index", s.device.MaxLength()),
			logging.Duration("request_timeout", s.timeouts.RequestTimeout),
		)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  GET /fib/{k}?format=decimal|hex|limbs|bytes")
		s.logger.Println("  GET /health")
		s.logger.Println("  GET /algorithms")
		s.logger.Println("  GET /metrics")

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context done, shutting down")
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received, shutting down")
	case err, ok := <-errCh:
		if ok {
			return apperrors.NewServerError("server failed", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	for range errCh {
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
