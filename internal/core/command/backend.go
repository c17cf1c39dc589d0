package command

import "github.com/yndnr/respkv/pkg/resp"

// Backend is the shared key/hash/set store commands run against.
//
// Implementations must be safe for concurrent use. Each method must be
// atomic with respect to other calls on the same key.
type Backend interface {
	Get(key string) (resp.Frame, bool)
	Set(key string, value resp.Frame)

	HGet(key, field string) (resp.Frame, bool)
	HSet(key, field string, value resp.Frame)
	// HGetAll returns a snapshot of the hash. The caller owns the map.
	HGetAll(key string) (map[string]resp.Frame, bool)

	SIsMember(key, member string) bool
	// InsertMembers creates the set if absent, else unions members into it.
	InsertMembers(key string, members []string)
}
