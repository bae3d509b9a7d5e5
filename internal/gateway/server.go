// Package gateway serves the execution collaborator over HTTP and provides
// a client for it.
package gateway

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/db"
)

// QueryPath is the execution endpoint
const QueryPath = "/api/data/query"

// Server is the execution gateway HTTP server
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *zap.Logger
}

// Config holds dependencies and settings for a Server
type Config struct {
	Executor db.Executor
	Logger   *zap.Logger

	Addr                string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	MaxRequestBodyBytes int64
}

// New creates a gateway server with all routes configured
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxRequestBodyBytes <= 0 {
		cfg.MaxRequestBodyBytes = 1 << 20
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}

	h := &handlers{
		executor: cfg.Executor,
		logger:   cfg.Logger,
		maxBody:  cfg.MaxRequestBodyBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+QueryPath, h.handleQuery)
	mux.HandleFunc("GET /health", h.handleHealth)

	var handler http.Handler = mux
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("gateway starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gateway shutting down")
	return s.httpServer.Shutdown(ctx)
}
