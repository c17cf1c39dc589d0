package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ReadyFunc reports whether the server can accept RESP clients.
type ReadyFunc func() error

// StatsFunc returns a JSON-encodable keyspace summary.
type StatsFunc func() any

// Options wires the handler to the rest of the server.
type Options struct {
	Ready  ReadyFunc
	Stats  StatsFunc
	Logger logger.Logger
}

// Handler serves the admin endpoints.
type Handler struct {
	ready  ReadyFunc
	stats  StatsFunc
	logger logger.Logger
	mux    *http.ServeMux
}

// New creates a Handler. Nil callbacks make /ready always succeed and
// /stats return an empty object.
func New(opts Options) *Handler {
	h := &Handler{
		ready:  opts.Ready,
		stats:  opts.Stats,
		logger: opts.Logger,
		mux:    http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = logger.Default()
	}
	if h.stats == nil {
		h.stats = func() any { return struct{}{} }
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /version", h.handleVersion)
	h.mux.HandleFunc("GET /stats", h.handleStats)
}

// Response is the JSON envelope of every admin endpoint.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.write(w, r, status, Response{Code: "OK", Message: "success", Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("X-Error-Code", code)
	h.write(w, r, status, Response{Code: code, Message: message})
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	resp.RequestID = logger.RequestIDFromContext(r.Context())
	resp.Timestamp = time.Now().UnixMilli()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
