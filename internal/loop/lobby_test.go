package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLobbyRegister(t *testing.T) {
	l := NewLobby()
	a := l.Register("a")
	b := l.Register("b")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, l.Count())

	l.Unregister(a.ID)
	l.Unregister(a.ID)
	l.Unregister(999)
	assert.Equal(t, 1, l.Count())
}

func TestLobbyShutdownWaitsForSessions(t *testing.T) {
	l := NewLobby()
	h := l.Register("pilot")

	go func() {
		<-h.Shutdown()
		l.Unregister(h.ID)
	}()

	assert.True(t, l.Shutdown(2*time.Second))
	assert.Zero(t, l.Count())
}

func TestLobbyShutdownTimeout(t *testing.T) {
	l := NewLobby()
	h := l.Register("stuck")

	assert.False(t, l.Shutdown(50*time.Millisecond))

	select {
	case <-h.Shutdown():
	default:
		t.Fatal("session was not notified")
	}

	// A second shutdown does not close the channel twice.
	assert.False(t, l.Shutdown(10*time.Millisecond))
}

func TestLobbyShutdownEmpty(t *testing.T) {
	assert.True(t, NewLobby().Shutdown(time.Second))
}
