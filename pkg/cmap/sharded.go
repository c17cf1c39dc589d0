package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is used when no valid shard count is given.
const DefaultShardCount = 16

// Map is a concurrent map split into independently locked shards.
type Map[K ~string, V any] struct {
	shards    []*shard[K, V]
	shardMask uint32
}

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

type options struct {
	shardCount int
}

// Option configures a Map.
type Option func(*options)

// WithShardCount sets the number of shards. Values that are not a
// positive power of two fall back to DefaultShardCount.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// ValidShardCount reports whether n is usable as a shard count.
func ValidShardCount(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// New creates a Map.
func New[K ~string, V any](opts ...Option) *Map[K, V] {
	o := options{shardCount: DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}
	if !ValidShardCount(o.shardCount) {
		o.shardCount = DefaultShardCount
	}

	m := &Map[K, V]{
		shards:    make([]*shard[K, V], o.shardCount),
		shardMask: uint32(o.shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return m
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	return m.shards[murmur3.Sum32([]byte(key))&m.shardMask]
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// GetOrCompute returns the value under key, or stores and returns the
// result of create if key is absent. loaded reports whether the value
// already existed. create runs under the shard lock.
func (m *Map[K, V]) GetOrCompute(key K, create func() V) (value V, loaded bool) {
	s := m.shardFor(key)

	s.mu.RLock()
	value, loaded = s.items[key]
	s.mu.RUnlock()
	if loaded {
		return value, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if value, loaded = s.items[key]; loaded {
		return value, true
	}
	value = create()
	s.items[key] = value
	return value, false
}

// Count returns the number of keys.
func (m *Map[K, V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}
