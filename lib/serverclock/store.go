package serverclock

import "sync"

// OffsetStore maps an endpoint identifier (host:port or resolved address)
// to the number of minutes the local clock is ahead of that server's clock.
// Entries are fill-once: the first write for a key wins and later writes
// are ignored, so a resolved offset never changes for the process lifetime.
type OffsetStore struct {
	mu      sync.RWMutex
	offsets map[string]int
}

func NewOffsetStore() *OffsetStore {
	return &OffsetStore{offsets: make(map[string]int)}
}

// Get returns the stored offset for endpoint and whether one exists.
func (s *OffsetStore) Get(endpoint string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	minutes, ok := s.offsets[endpoint]
	return minutes, ok
}

// Put stores the offset for endpoint unless one is already present. It
// reports whether this call created the entry, so racing duplicate
// responses can tell which of them actually resolved the endpoint.
func (s *OffsetStore) Put(endpoint string, minutes int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offsets[endpoint]; ok {
		return false
	}
	s.offsets[endpoint] = minutes
	return true
}

// Len returns the number of resolved endpoints.
func (s *OffsetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offsets)
}
