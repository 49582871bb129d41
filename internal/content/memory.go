package content

import (
	"context"
	"sync"
)

// MemoryStore is the in-process backend used when no IPFS API is
// configured, and in tests. Content ids are hex sha256 of the bytes.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	pins  map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
		pins:  make(map[string]struct{}),
	}
}

func (s *MemoryStore) Add(ctx context.Context, data []byte, _ Metadata) (string, error) {
	cid := HashBytes(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.blobs[cid]; !exists {
		stored := make([]byte, len(data))
		copy(stored, data)
		s.blobs[cid] = stored
	}
	return cid, nil
}

func (s *MemoryStore) Retrieve(ctx context.Context, cid string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[cid]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if HashBytes(data) != cid {
		return nil, ErrHashMismatch
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Pin(ctx context.Context, cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[cid]; !ok {
		return ErrNotFound
	}
	s.pins[cid] = struct{}{}
	return nil
}

// Pinned reports whether a cid is pinned.
func (s *MemoryStore) Pinned(cid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pins[cid]
	return ok
}
