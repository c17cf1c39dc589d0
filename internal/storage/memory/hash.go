package memory

import (
	"maps"
	"sync"

	"github.com/yndnr/respkv/pkg/resp"
)

// fieldMap is one hash value guarded by its own lock.
type fieldMap struct {
	mu     sync.RWMutex
	fields map[string]resp.Frame
}

func newFieldMap() *fieldMap {
	return &fieldMap{fields: make(map[string]resp.Frame)}
}

func (h *fieldMap) get(field string) (resp.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.fields[field]
	return v, ok
}

func (h *fieldMap) set(field string, value resp.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields[field] = value
}

func (h *fieldMap) snapshot() map[string]resp.Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return maps.Clone(h.fields)
}
