// Package webserver serves the Gantt chart of a scheduler result on
// localhost, re-reading the result on every request.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rmviz/rmgantt/internal/workspace"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Port to bind on 127.0.0.1. Zero picks a free port.
	Port      int
	InputPath string
	Settings  workspace.Settings
	// Width and Height size the SVG; zero keeps the renderer defaults.
	Width     int
	Height    int
	NoBrowser bool
	Browser   BrowserOpener
	Logger    *slog.Logger
}

// Server wraps the HTTP server with configuration.
type Server struct {
	cfg    Config
	srv    *http.Server
	logger *slog.Logger

	mu   sync.Mutex
	addr net.Addr
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("webserver: input path is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Browser == nil {
		cfg.Browser = systemBrowser{}
	}

	mux := http.NewServeMux()
	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		srv: &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:           gzhttp.GzipHandler(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	registerRoutes(mux, s)
	return s, nil
}

// ListenAndServe starts the HTTP server and optionally opens a browser. It
// returns once ctx is cancelled and the server has shut down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	url := s.URL()
	s.logger.Info("HTTP server starting", "address", ln.Addr().String(), "url", url, "input", s.cfg.InputPath)

	if !s.cfg.NoBrowser {
		// Open browser in background after a short delay.
		go func() {
			time.Sleep(500 * time.Millisecond)
			s.openBrowser(url)
		}()
	}

	// Graceful shutdown on context cancellation.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	<-shutdownDone
	return nil
}

// URL returns the address users should open. Before the server listens it
// is derived from the configured port.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tcp, ok := s.addr.(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	return fmt.Sprintf("http://localhost:%d", s.cfg.Port)
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) openBrowser(url string) {
	if err := s.cfg.Browser.Open(url); err != nil {
		s.logger.Debug("failed to open browser", "error", err)
	}
}
