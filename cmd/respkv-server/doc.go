// Command respkv-server serves the RESP key/hash/set store.
//
// It listens for RESP clients on server.redis.addr and, when enabled,
// exposes /metrics, /health, /ready, /version and /stats on
// server.http.addr.
//
// Usage:
//
//	respkv-server [--config respkv.yaml] [--redis-addr HOST:PORT]
//	              [--http-addr HOST:PORT] [--log-level LEVEL]
//
// Configuration precedence is flags, then RESPKV_* environment variables,
// then the YAML file, then built-in defaults. Editing log.level in the
// file takes effect without a restart.
package main
