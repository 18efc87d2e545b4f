package leaderboard

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// DefaultCapacity is how many entries a Store keeps before dropping the worst.
const DefaultCapacity = 1000

// Store is an in-memory ranked score table. Entries are kept sorted best
// first; equal scores keep submission order.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	nextSeq  uint64
	capacity int
	now      func() time.Time
}

// NewStore creates a store keeping at most capacity entries.
// A non-positive capacity means DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		now:      time.Now,
	}
}

// Add records a run and returns the stored entry.
func (s *Store) Add(name string, score int) (Entry, error) {
	if score < 0 {
		return Entry{}, ErrInvalidScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	e := Entry{
		ID:        strconv.FormatUint(s.nextSeq, 10),
		Name:      NormalizeName(name),
		Score:     score,
		Timestamp: s.now().UnixMilli(),
	}

	// First position ranked strictly below the new entry: equal scores stay
	// ahead of it because they were submitted earlier.
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Score < score
	})
	if i >= s.capacity {
		return e, nil
	}

	s.entries = append(s.entries, Entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e

	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	return e, nil
}

// Top returns a copy of the best limit entries.
func (s *Store) Top(limit int) []Entry {
	limit = ClampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]Entry, limit)
	copy(out, s.entries[:limit])
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
