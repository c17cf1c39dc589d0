// Package httpserver runs the admin HTTP listener of respkv-server.
//
// Endpoints:
//
//   - /metrics: Prometheus exposition
//   - /health, /ready, /version, /stats: see package handler
//
// Every request passes through Recover, RequestID, AccessLog and Metrics;
// RateLimit is added when a per-client limit is configured.
package httpserver
