package relay

import "sync"

// EventStore holds accepted events in arrival order. It is read-heavy
// (replay queries) and write-light (new events), so reads take a shared
// lock. Capacity is bounded: the slots form a ring, and once full each
// insert overwrites the oldest event in place.
type EventStore struct {
	mu       sync.RWMutex
	ring     []*Event
	head     int
	count    int
	byID     map[string]struct{}
	capacity int
}

func NewEventStore(capacity int) *EventStore {
	return &EventStore{
		ring:     make([]*Event, capacity),
		byID:     make(map[string]struct{}),
		capacity: capacity,
	}
}

// Insert stores the event. It returns false when the id is already known,
// which the caller acknowledges as a duplicate without re-fanning out.
func (s *EventStore) Insert(ev *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byID[ev.ID]; dup {
		return false
	}
	if s.count == s.capacity {
		delete(s.byID, s.ring[s.head].ID)
		s.ring[s.head] = ev
		s.head = (s.head + 1) % s.capacity
	} else {
		s.ring[(s.head+s.count)%s.capacity] = ev
		s.count++
	}
	s.byID[ev.ID] = struct{}{}
	return true
}

// Has reports whether the id is stored.
func (s *EventStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// Query returns stored events matching any of the filters, in arrival
// order, bounded by limit (the smallest positive filter limit, capped by
// the store's replay cap elsewhere).
func (s *EventStore) Query(filters []Filter, limit int) []*Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*Event, 0, limit)
	for i := 0; i < s.count; i++ {
		ev := s.ring[(s.head+i)%s.capacity]
		if MatchesAny(filters, ev) {
			matched = append(matched, ev)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}
