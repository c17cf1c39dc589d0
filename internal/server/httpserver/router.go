package httpserver

import (
	"net/http"

	"github.com/yndnr/respkv/internal/server/httpserver/handler"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds the dependencies of the admin router.
type RouterConfig struct {
	// Metrics is served on /metrics and counts requests. Required.
	Metrics *metric.Registry

	// Ready backs /ready.
	Ready handler.ReadyFunc

	// Stats backs /stats.
	Stats handler.StatsFunc

	Logger logger.Logger

	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit int

	// TrustProxy keys the rate limit on X-Forwarded-For and X-Real-IP.
	// Only set it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Routes lists the paths the router serves. Requests to other paths are
// counted under the "other" label.
var Routes = []string{"/metrics", "/health", "/ready", "/version", "/stats"}

// NewRouter builds the admin handler with its middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(handler.Options{
		Ready:  cfg.Ready,
		Stats:  cfg.Stats,
		Logger: log,
	})

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.Handle("/", h)

	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		AccessLog(log),
		Metrics(cfg.Metrics),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.TrustProxy))
	}

	return Chain(mux, middlewares...)
}
