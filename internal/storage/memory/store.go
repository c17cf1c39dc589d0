package memory

import (
	"github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/pkg/cmap"
	"github.com/yndnr/respkv/pkg/resp"
)

var _ command.Backend = (*Store)(nil)

// Store holds the string, hash and set keyspaces.
//
// A Store is created once and shared by every connection.
type Store struct {
	strings *cmap.Map[string, resp.Frame]
	hashes  *cmap.Map[string, *fieldMap]
	sets    *cmap.Map[string, *memberSet]
}

type options struct {
	shardCount int
}

// Option configures the Store.
type Option func(*options)

// WithShardCount sets the shard count of each keyspace.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := options{shardCount: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	shards := cmap.WithShardCount(o.shardCount)

	return &Store{
		strings: cmap.New[string, resp.Frame](shards),
		hashes:  cmap.New[string, *fieldMap](shards),
		sets:    cmap.New[string, *memberSet](shards),
	}
}

// Get returns the string value of key.
func (s *Store) Get(key string) (resp.Frame, bool) {
	return s.strings.Get(key)
}

// Set stores value under key.
func (s *Store) Set(key string, value resp.Frame) {
	s.strings.Set(key, value)
}

// HGet returns one field of the hash at key.
func (s *Store) HGet(key, field string) (resp.Frame, bool) {
	h, ok := s.hashes.Get(key)
	if !ok {
		return nil, false
	}
	return h.get(field)
}

// HSet stores one field, creating the hash if needed.
func (s *Store) HSet(key, field string, value resp.Frame) {
	h, _ := s.hashes.GetOrCompute(key, newFieldMap)
	h.set(field, value)
}

// HGetAll returns a copy of the hash at key.
func (s *Store) HGetAll(key string) (map[string]resp.Frame, bool) {
	h, ok := s.hashes.Get(key)
	if !ok {
		return nil, false
	}
	return h.snapshot(), true
}

// SIsMember reports whether member is in the set at key.
func (s *Store) SIsMember(key, member string) bool {
	set, ok := s.sets.Get(key)
	if !ok {
		return false
	}
	return set.contains(member)
}

// InsertMembers unions members into the set at key, creating it if needed.
func (s *Store) InsertMembers(key string, members []string) {
	set, _ := s.sets.GetOrCompute(key, newMemberSet)
	set.add(members)
}

// Stats is a point-in-time count of keys per keyspace.
type Stats struct {
	Strings int `json:"strings"`
	Hashes  int `json:"hashes"`
	Sets    int `json:"sets"`
}

// ByType returns the counts keyed by keyspace name.
func (s Stats) ByType() map[string]int {
	return map[string]int{
		"strings": s.Strings,
		"hashes":  s.Hashes,
		"sets":    s.Sets,
	}
}

// Stats counts keys. Keyspaces are counted one after the other.
func (s *Store) Stats() Stats {
	return Stats{
		Strings: s.strings.Count(),
		Hashes:  s.hashes.Count(),
		Sets:    s.sets.Count(),
	}
}

// ShardCount returns the shard count of each keyspace.
func (s *Store) ShardCount() int {
	return s.strings.ShardCount()
}
