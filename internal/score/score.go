// Package score tracks the points of the current run and the persisted high score.
package score

import (
	"io"

	"github.com/charmbracelet/log"
)

// Service records points for one run. It is not safe for concurrent use;
// the game loop owns it.
type Service struct {
	current int
	high    int
	store   Store
	logger  *log.Logger
}

// NewService creates a score service backed by store. The stored high score
// is loaded immediately; a failing store is logged and treated as empty.
func NewService(store Store, logger *log.Logger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Service{store: store, logger: logger}
	high, err := store.LoadHigh()
	if err != nil {
		logger.Warn("high score unavailable", "err", err)
	} else {
		s.high = high
	}
	return s
}

// Increment adds points to the current run. Non-positive values are ignored
// so the score never decreases. A new high score is persisted right away.
func (s *Service) Increment(points int) {
	if points <= 0 {
		return
	}
	s.current += points
	if s.current > s.high {
		s.high = s.current
		if err := s.store.SaveHigh(s.high); err != nil {
			s.logger.Warn("failed to persist high score", "high", s.high, "err", err)
		}
	}
}

// Reset clears the current run. The high score is kept.
func (s *Service) Reset() {
	s.current = 0
}

// Current returns the points of the current run.
func (s *Service) Current() int {
	return s.current
}

// High returns the best score seen so far.
func (s *Service) High() int {
	return s.high
}
