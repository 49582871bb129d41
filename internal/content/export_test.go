package content

import "time"

// SetTimeout shortens the per-operation deadline so timeout paths are
// testable without waiting out the production value.
func (s *IPFSStore) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Corrupt replaces a stored blob in place, bypassing hashing, so tests
// can exercise the integrity check on retrieval.
func (s *MemoryStore) Corrupt(cid string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[cid] = data
}
