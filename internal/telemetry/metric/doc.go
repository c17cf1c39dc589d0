// Package metric holds the Prometheus metrics of the server.
//
//   - prometheus.go: Registry with connection, command and HTTP metrics
//   - collector.go: keyspace collector reading live key counts
//
// Metrics are exposed at /metrics on the admin HTTP listener.
package metric
