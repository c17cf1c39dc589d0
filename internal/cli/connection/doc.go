// Package connection speaks RESP to a respkv server for respkv-cli.
//
//   - client.go: a single TCP connection with request/reply round trips
//   - manager.go: the REPL's current connection and reconnects
package connection
