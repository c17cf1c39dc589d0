// Package command turns decoded RESP arrays into typed commands and
// executes them against a Backend.
//
// The command set is closed:
//
//   - Strings: GET, SET
//   - Hashes: HGET, HSET, HGETALL, HMGET
//   - Sets: SADD, SISMEMBER
//   - Connection: ECHO, PING, QUIT
//
// Any other keyword parses to Unrecognized, which is a valid command and
// not an error.
//
// Parsing validates everything up front. Execute is total: it never fails
// and only distinguishes present from absent data.
package command
