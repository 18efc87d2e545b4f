// Package input turns a raw terminal byte stream into game key events.
// Terminals report presses only, so a held movement key is released after
// it has not been seen for the hold duration.
package input

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/spacedefenders/internal/game"
)

// DefaultHoldDuration is how long a movement key stays down after its last
// byte. It must outlast the terminal's auto-repeat interval.
const DefaultHoldDuration = 150 * time.Millisecond

// Bytes that arrive as-is in raw mode.
const (
	ctrlC = 0x03
	esc   = 0x1b
)

// Frame is the input gathered since the previous Read.
type Frame struct {
	Events  []game.KeyEvent
	Quit    bool   // q or Ctrl-C
	Closed  bool   // The reader hit EOF or an error
	Pressed []byte // Raw bytes, for activity tracking
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte                 // Unfinished escape sequence from the previous frame
	held    map[game.Key]time.Time // Last time each held key was seen
	hold    time.Duration
	now     func() time.Time
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
// Held movement keys are released after hold without a byte; zero means
// DefaultHoldDuration.
func StartStream(r io.Reader, hold time.Duration) *Stream {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	s := newStream(hold, time.Now)
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(hold time.Duration, now func() time.Time) *Stream {
	return &Stream{
		ch:   make(chan byte, 128),
		held: make(map[game.Key]time.Time),
		hold: hold,
		now:  now,
	}
}

// Read drains all available bytes without blocking and returns the
// resulting frame.
func (s *Stream) Read() Frame {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	f := s.parse(buf, s.now())
	f.Closed = s.closed
	if s.closed {
		f.Events = append(f.Events, s.releaseAll()...)
	}
	return f
}

// parse converts buf into events and releases keys whose hold expired.
// An escape sequence cut off at the end of buf is kept and completed by the
// next call.
func (s *Stream) parse(buf []byte, now time.Time) Frame {
	f := Frame{Pressed: buf}

	data := buf
	if len(s.pending) > 0 {
		data = append(s.pending, buf...)
		s.pending = nil
	}

	for i := 0; i < len(data); i++ {
		b := data[i]

		// CSI sequence: ESC [ <code>
		if b == esc {
			rest := data[i+1:]
			if len(rest) == 0 || (len(rest) == 1 && rest[0] == '[') {
				s.pending = append([]byte(nil), data[i:]...)
				break
			}
			if rest[0] != '[' {
				continue
			}
			switch rest[1] {
			case 'C':
				f.Events = s.press(f.Events, game.KeyRight, now)
			case 'D':
				f.Events = s.press(f.Events, game.KeyLeft, now)
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', ctrlC:
			f.Quit = true
		case 'a', 'A', 'h', 'H':
			f.Events = s.press(f.Events, game.KeyLeft, now)
		case 'd', 'D', 'l', 'L':
			f.Events = s.press(f.Events, game.KeyRight, now)
		case ' ':
			f.Events = trigger(f.Events, game.KeyFire)
		case 'p', 'P':
			f.Events = trigger(f.Events, game.KeyPause)
		case 'm', 'M':
			f.Events = trigger(f.Events, game.KeyMute)
		}
	}

	for _, k := range []game.Key{game.KeyLeft, game.KeyRight} {
		last, ok := s.held[k]
		if ok && now.Sub(last) >= s.hold {
			delete(s.held, k)
			f.Events = append(f.Events, game.KeyEvent{Key: k})
		}
	}
	return f
}

// press records a held key, emitting key-down only on the first byte.
func (s *Stream) press(events []game.KeyEvent, k game.Key, now time.Time) []game.KeyEvent {
	if _, ok := s.held[k]; !ok {
		events = append(events, game.KeyEvent{Key: k, Down: true})
	}
	s.held[k] = now
	return events
}

// trigger emits a press immediately followed by its release.
func trigger(events []game.KeyEvent, k game.Key) []game.KeyEvent {
	return append(events, game.KeyEvent{Key: k, Down: true}, game.KeyEvent{Key: k})
}

func (s *Stream) releaseAll() []game.KeyEvent {
	var events []game.KeyEvent
	for _, k := range []game.Key{game.KeyLeft, game.KeyRight} {
		if _, ok := s.held[k]; ok {
			delete(s.held, k)
			events = append(events, game.KeyEvent{Key: k})
		}
	}
	return events
}
