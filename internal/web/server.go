// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
)

// Server serves the Zoneboard API and static frontend.
type Server struct {
	addr        string
	staticDir   string
	corsOrigins []string
	handler     *Handler
	listener    net.Listener
	httpServer  *http.Server
	running     atomic.Bool
}

// NewServer creates an API server.
// addr: listen address in "host:port" format (e.g. ":8000").
// staticDir may be empty to disable frontend serving.
func NewServer(addr string, handler *Handler, staticDir string, corsOrigins []string) (*Server, error) {
	if handler == nil {
		return nil, oops.Errorf("handler cannot be nil")
	}
	return &Server{
		addr:        addr,
		staticDir:   staticDir,
		corsOrigins: corsOrigins,
		handler:     handler,
	}, nil
}

// Routes builds the request mux. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// The bare paths are kept for clients that predate the /api prefix.
	mux.HandleFunc("POST /api/signup", s.handler.handleSignup)
	mux.HandleFunc("POST /signup", s.handler.handleSignup)
	mux.HandleFunc("POST /api/login", s.handler.handleLogin)
	mux.HandleFunc("POST /login", s.handler.handleLogin)
	mux.HandleFunc("GET /users", s.handler.handleUsers)
	mux.HandleFunc("GET /db", s.handler.handleZones)

	if s.staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}

	return corsMiddleware(s.corsOrigins, mux)
}

// Start begins serving API requests. It returns an error channel that
// receives any error from the HTTP server after it starts; the channel
// is closed when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state so the server can be stopped again.
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	slog.Info("web server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// corsMiddleware echoes back origins matching one of the configured
// prefixes and answers preflight requests. Credentialed requests need
// the literal origin, not a wildcard.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			for _, prefix := range origins {
				if strings.HasPrefix(origin, prefix) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
