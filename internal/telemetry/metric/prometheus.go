package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "respkv"

// Error kinds used as the "kind" label of ProtocolErrors.
const (
	ErrorKindFrame       = "frame"
	ErrorKindLimit       = "limit"
	ErrorKindCommand     = "command"
	ErrorKindRateLimited = "rate_limited"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsTotal    prometheus.Counter
	ConnectionsRejected prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProtocolErrors  *prometheus.CounterVec

	// Admin HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewRegistry creates a registry with the Go runtime and process
// collectors plus the server metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_active",
			Help:      "Number of open client connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Client connections accepted",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_rejected_total",
			Help:      "Client connections refused because max_clients was reached",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "commands_total",
			Help:      "Commands executed, by command name",
		}, []string{"command"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "command_duration_seconds",
			Help:      "Command execution latency",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "errors_total",
			Help:      "Requests rejected, by kind",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Admin HTTP requests, by path and status code",
		}, []string{"path", "code"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ConnectionsRejected,
		r.CommandsTotal,
		r.CommandDuration,
		r.ProtocolErrors,
		r.HTTPRequests,
	)
	return r
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns the /metrics handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
