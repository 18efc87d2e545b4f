package loop

import (
	"sync"
	"time"
)

// Lobby tracks the sessions hosted by one process so they can be told
// about a shutdown. Every session plays its own game.
type Lobby struct {
	mu       sync.RWMutex
	sessions map[int]*Handle
	nextID   int
}

// Handle is a session's registration in a Lobby.
type Handle struct {
	ID       int
	Name     string
	shutdown chan struct{}
	once     sync.Once
}

// Shutdown is closed when the host starts shutting down.
func (h *Handle) Shutdown() <-chan struct{} {
	return h.shutdown
}

func (h *Handle) notify() {
	h.once.Do(func() { close(h.shutdown) })
}

// NewLobby creates an empty lobby.
func NewLobby() *Lobby {
	return &Lobby{
		sessions: make(map[int]*Handle),
		nextID:   1,
	}
}

// Register adds a session for the named player.
func (l *Lobby) Register(name string) *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := &Handle{
		ID:       l.nextID,
		Name:     name,
		shutdown: make(chan struct{}),
	}
	l.nextID++
	l.sessions[h.ID] = h
	return h
}

// Unregister removes a session. Unknown IDs are ignored.
func (l *Lobby) Unregister(id int) {
	l.mu.Lock()
	delete(l.sessions, id)
	l.mu.Unlock()
}

// Count returns the number of registered sessions.
func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// Shutdown notifies every session and waits for all of them to unregister,
// up to timeout. It reports whether the lobby emptied in time.
func (l *Lobby) Shutdown(timeout time.Duration) bool {
	l.mu.RLock()
	for _, h := range l.sessions {
		h.notify()
	}
	l.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
