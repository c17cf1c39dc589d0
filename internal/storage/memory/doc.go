// Package memory is the in-memory Backend behind the RESP server.
//
// Three sharded maps hold the keyspaces:
//
//   - strings: key -> frame
//   - hashes: key -> field map
//   - sets: key -> member set
//
// Each hash and set carries its own RWMutex, so one HSET or SADD is atomic
// for its key. Nothing is atomic across keys or across commands.
package memory
