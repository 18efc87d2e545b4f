// Package audio plays background music and short effect cues. Audio is
// optional: when the speaker cannot be opened the game runs silent.
package audio

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
)

const sampleRate = beep.SampleRate(44100)

// Player plays cues. Implementations never fail.
type Player interface {
	Play(c Cue)
	SetMuted(muted bool)
	Close()
}

// Nop is the silent Player.
type Nop struct{}

func (Nop) Play(Cue)      {}
func (Nop) SetMuted(bool) {}
func (Nop) Close()        {}

// Options configures the speaker player.
type Options struct {
	MusicFile string  // Ogg Vorbis; empty uses the built-in loop
	Volume    float64 // Base-2 exponent; 0 is unchanged, -1 is half
}

// Speaker plays through the system audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	master *effects.Volume
	music  io.Closer // Open music file, if any
	closed bool
	logger *log.Logger
}

var _ Player = (*Speaker)(nil)

// New opens the audio device and starts the music. On failure it logs a
// warning and returns Nop.
func New(opts Options, logger *log.Logger) Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		logger.Warn("audio disabled", "err", err)
		return Nop{}
	}

	s := &Speaker{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
	s.master = &effects.Volume{
		Streamer: s.mixer,
		Base:     2,
		Volume:   opts.Volume,
	}

	music, closer, err := openMusic(opts.MusicFile)
	if err != nil {
		logger.Warn("music file unavailable, using built-in loop", "path", opts.MusicFile, "err", err)
		music = builtinMusic()
	}
	s.music = closer
	s.mixer.Add(&effects.Volume{Streamer: music, Base: 2, Volume: -2})

	speaker.Play(s.master)
	return s
}

// Play mixes in the sound for c.
func (s *Speaker) Play(c Cue) {
	st := cueStreamer(c)
	if st == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// SetMuted silences or restores all output.
func (s *Speaker) SetMuted(muted bool) {
	speaker.Lock()
	s.master.Silent = muted
	speaker.Unlock()
}

// Close stops playback and releases the music file.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	speaker.Clear()
	if s.music != nil {
		if err := s.music.Close(); err != nil {
			s.logger.Debug("close music", "err", err)
		}
	}
}

// openMusic decodes an Ogg Vorbis file as an endless loop at sampleRate.
func openMusic(path string) (beep.Streamer, io.Closer, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("no music file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var looped beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != sampleRate {
		looped = beep.Resample(4, format.SampleRate, sampleRate, looped)
	}
	return looped, streamer, nil
}
