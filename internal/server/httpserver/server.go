package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout bounds how long a client may take to send headers.
const ReadHeaderTimeout = 5 * time.Second

// Server is the admin HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
}

// New creates a server that will listen on addr.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		handler: handler,
	}
}

// ListenAndServe listens on the configured address and serves until
// Shutdown. It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
