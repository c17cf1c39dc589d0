// Package handler serves the admin HTTP endpoints of respkv-server.
//
//   - health.go: liveness, readiness and version
//   - stats.go: keyspace statistics
//
// Every JSON body uses the Response envelope.
package handler
