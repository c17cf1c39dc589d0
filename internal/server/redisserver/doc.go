// Package redisserver serves the RESP command set over TCP.
//
// Each accepted connection gets its own goroutine, a ULID connection ID and
// a resp.Reader. Frames are decoded, converted to commands, executed
// against the shared Backend and answered in order. Replies to pipelined
// requests are buffered and flushed once no further complete frame is
// waiting.
//
// Error policy:
//   - corrupt stream or protocol limit: reply -ERR, then close
//   - invalid command or argument: reply -ERR, keep serving
//   - rate limited: reply -ERR rate limit exceeded, keep serving
//   - QUIT: reply +OK, then close
package redisserver
