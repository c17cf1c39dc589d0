package command

import (
	"maps"

	"github.com/yndnr/respkv/pkg/resp"
)

// mapBackend is a single-goroutine Backend for tests.
type mapBackend struct {
	strings map[string]resp.Frame
	hashes  map[string]map[string]resp.Frame
	sets    map[string]map[string]struct{}
}

func newMapBackend() *mapBackend {
	return &mapBackend{
		strings: make(map[string]resp.Frame),
		hashes:  make(map[string]map[string]resp.Frame),
		sets:    make(map[string]map[string]struct{}),
	}
}

func (b *mapBackend) Get(key string) (resp.Frame, bool) {
	v, ok := b.strings[key]
	return v, ok
}

func (b *mapBackend) Set(key string, value resp.Frame) {
	b.strings[key] = value
}

func (b *mapBackend) HGet(key, field string) (resp.Frame, bool) {
	v, ok := b.hashes[key][field]
	return v, ok
}

func (b *mapBackend) HSet(key, field string, value resp.Frame) {
	h, ok := b.hashes[key]
	if !ok {
		h = make(map[string]resp.Frame)
		b.hashes[key] = h
	}
	h[field] = value
}

func (b *mapBackend) HGetAll(key string) (map[string]resp.Frame, bool) {
	h, ok := b.hashes[key]
	if !ok {
		return nil, false
	}
	return maps.Clone(h), true
}

func (b *mapBackend) SIsMember(key, member string) bool {
	_, ok := b.sets[key][member]
	return ok
}

func (b *mapBackend) InsertMembers(key string, members []string) {
	s, ok := b.sets[key]
	if !ok {
		s = make(map[string]struct{})
		b.sets[key] = s
	}
	for _, m := range members {
		s[m] = struct{}{}
	}
}
