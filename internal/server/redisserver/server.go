package redisserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// Config holds the RESP server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadTimeout bounds reading the rest of a frame once its first byte
	// has arrived (default: 30s). Protects against slowloris clients.
	ReadTimeout time.Duration
	// WriteTimeout bounds flushing replies (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the next request (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum commands per second per connection.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxClients caps concurrent connections. 0 means unlimited.
	MaxClients int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    0,
		MaxClients:   10000,
	}
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 30 * time.Second
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 30 * time.Second
	}
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = 5 * time.Minute
	}
	return out
}

// Server is the RESP protocol server.
type Server struct {
	cfg     Config
	backend command.Backend
	logger  logger.Logger
	metrics *metric.Registry

	mu      sync.Mutex
	ln      net.Listener
	conns   map[*conn]struct{}
	running atomic.Bool
	active  atomic.Int64
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records server metrics into r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = r
	}
}

// New creates a server that executes commands against backend.
func New(cfg *Config, backend command.Backend, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:     cfg.withDefaults(),
		backend: backend,
		conns:   make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	s.logger = s.logger.With("component", "redisserver")
	return s
}

// Start binds the listener and serves connections in the background.
// It returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("redisserver: listen %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		return errors.New("redisserver: already started")
	}
	s.ln = ln
	s.mu.Unlock()

	s.running.Store(true)
	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("accept loop stopped", "error", err)
		}
		s.running.Store(false)
	}()
	return nil
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int {
	return int(s.active.Load())
}

// Shutdown stops accepting, closes live connections and waits for their
// goroutines, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("redis server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return err
		}

		if s.cfg.MaxClients > 0 && s.active.Load() >= int64(s.cfg.MaxClients) {
			s.metrics.ConnectionsRejected.Inc()
			s.logger.Warn("max clients reached", "remote", nc.RemoteAddr().String())
			s.reject(nc, "ERR max number of clients reached")
			continue
		}

		c := newConn(nc, s.cfg.RateLimit)
		if !s.track(c) {
			_ = c.close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

// track registers c unless the server is shutting down.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.active.Add(1)
	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectionsActive.Inc()
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.active.Add(-1)
	s.metrics.ConnectionsActive.Dec()
}

func (s *Server) reject(nc net.Conn, msg string) {
	_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	_, _ = nc.Write([]byte("-" + msg + "\r\n"))
	_ = nc.Close()
}
