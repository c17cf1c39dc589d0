package memory

import "sync"

// memberSet is a set of strings guarded by its own lock.
type memberSet struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

func newMemberSet() *memberSet {
	return &memberSet{members: make(map[string]struct{})}
}

// add inserts members under one lock.
func (s *memberSet) add(members []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range members {
		s.members[m] = struct{}{}
	}
}

func (s *memberSet) contains(member string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[member]
	return ok
}
