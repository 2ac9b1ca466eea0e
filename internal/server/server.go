// Package server serves the portfolio page, the contact form endpoint and,
// in development, live reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sooryaraj/folio/internal/config"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/livereload"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/sooryaraj/folio/internal/watcher"
)

// maxFormBytes bounds the contact form body.
const maxFormBytes = 64 << 10

// Server serves one site.
type Server struct {
	config  *config.Config
	store   *content.Store
	logger  logging.Logger
	hub     *livereload.Hub
	watcher *watcher.FileWatcher

	httpServer  *http.Server
	serverMutex sync.RWMutex

	now          func() time.Time
	shutdownOnce sync.Once
}

// New creates a server for the content held by store. The live reload hub
// and file watcher are only created when live reload is enabled.
func New(cfg *config.Config, store *content.Store, logger logging.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		store:  store,
		logger: logger.WithComponent("server"),
		now:    time.Now,
	}

	if cfg.LiveReloadEnabled() {
		s.hub = livereload.NewHub(logger)

		fw, err := watcher.NewFileWatcher(cfg.Development.Debounce, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = fw
	}

	return s, nil
}

// Handler returns the routed and wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /contact", s.handleContact)
	mux.HandleFunc("GET /mailto", s.handleMailto)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.hub != nil {
		mux.Handle("GET /ws", s.hub)
	}
	mux.Handle("GET /", s.staticHandler())

	var secConfig *SecurityConfig
	if s.config.IsDevelopment() {
		secConfig = DevelopmentSecurityConfig()
	} else {
		secConfig = ProductionSecurityConfig()
	}
	secConfig.Logger = s.logger

	return chain(mux,
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		SecurityMiddleware(secConfig),
	)
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Live reload file watching disabled")
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	site := s.store.Site()
	s.logger.Info(ctx, "Serving portfolio",
		"addr", srv.Addr,
		"environment", s.config.Server.Environment,
		"live_reload", s.hub != nil,
		"content", site.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the watcher, disconnects live reload clients and drains
// the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Stopping file watcher")
			}
		}

		if s.hub != nil {
			if err := s.hub.Shutdown(ctx); err != nil {
				s.logger.Warn(ctx, err, "Stopping live reload")
			}
		}

		s.serverMutex.RLock()
		srv := s.httpServer
		s.serverMutex.RUnlock()

		if srv != nil {
			shutdownErr = srv.Shutdown(ctx)
		}
	})

	return shutdownErr
}
