package server

import (
	"log"
	"time"

	"github.com/agbru/fibdrv/internal/logging"
)

// Option defines a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger routes server logs to a standard library log.Logger.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLogger(logger)
		}
	}
}

// WithTimeouts replaces the timeout configuration.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// WithSecurityConfig sets the security header and CORS configuration.
func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) {
		s.securityConfig = config
	}
}

// Timeouts holds timeout configuration for the HTTP server.
type Timeouts struct {
	// RequestTimeout bounds the computation of a single request.
	RequestTimeout time.Duration
	// ShutdownTimeout is the maximum duration allowed for graceful shutdown.
	ShutdownTimeout time.Duration
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout time.Duration
}

// DefaultServerTimeouts returns the production timeouts.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
