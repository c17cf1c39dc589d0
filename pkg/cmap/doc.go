// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread over a power-of-two number of shards by murmur3 hash,
// each guarded by its own RWMutex:
//
//	m := cmap.New[string, resp.Frame](cmap.WithShardCount(64))
//	m.Set("key", resp.BulkString("v"))
//	v, ok := m.Get("key")
//
// All operations are safe for concurrent use. Count locks one shard at a
// time, so it does not observe a consistent snapshot.
package cmap
