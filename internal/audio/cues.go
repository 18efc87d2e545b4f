package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/spacedefenders/internal/game"
)

// Cue is a short sound effect.
type Cue int

const (
	CueShot Cue = iota + 1
	CueHit
	CueBreach
	CueWave
	CueGameOver
)

// note is one tone of a cue or melody. A zero frequency is a rest.
type note struct {
	freq, endFreq float64 // Linear sweep from freq to endFreq
	dur           time.Duration
	amp           float64
}

var cues = map[Cue][]note{
	CueShot:     {{freq: 1200, endFreq: 500, dur: 70 * time.Millisecond, amp: 0.25}},
	CueHit:      {{freq: 300, endFreq: 90, dur: 140 * time.Millisecond, amp: 0.35}},
	CueBreach:   {{freq: 140, endFreq: 60, dur: 350 * time.Millisecond, amp: 0.4}},
	CueWave:     {{freq: 523, dur: 90 * time.Millisecond, amp: 0.25}, {freq: 784, dur: 140 * time.Millisecond, amp: 0.25}},
	CueGameOver: {{freq: 392, dur: 200 * time.Millisecond, amp: 0.3}, {freq: 311, dur: 200 * time.Millisecond, amp: 0.3}, {freq: 196, dur: 500 * time.Millisecond, amp: 0.3}},
}

// cueStreamer returns a finite streamer for c, or nil for an unknown cue.
func cueStreamer(c Cue) beep.Streamer {
	notes, ok := cues[c]
	if !ok {
		return nil
	}
	return sequence(notes)
}

func sequence(notes []note) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		streamers = append(streamers, tone(n))
	}
	return beep.Seq(streamers...)
}

// tone synthesizes a square-ish wave with a decaying envelope.
func tone(n note) beep.Streamer {
	total := sampleRate.N(n.dur)
	end := n.endFreq
	if end == 0 {
		end = n.freq
	}
	pos := 0
	phase := 0.0

	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			progress := float64(pos) / float64(total)
			freq := n.freq + (end-n.freq)*progress
			phase += 2 * math.Pi * freq / float64(sampleRate)

			v := 0.0
			if n.freq > 0 {
				// Fundamental plus a third harmonic for an arcade edge.
				v = math.Sin(phase) + math.Sin(3*phase)/3
				v *= n.amp * (1 - progress) / (1 + 1.0/3)
			}
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
	return gen
}

// melody is the built-in background loop.
var melody = []note{
	{freq: 110, dur: 240 * time.Millisecond, amp: 0.3},
	{freq: 0, dur: 60 * time.Millisecond},
	{freq: 98, dur: 240 * time.Millisecond, amp: 0.3},
	{freq: 0, dur: 60 * time.Millisecond},
	{freq: 87, dur: 240 * time.Millisecond, amp: 0.3},
	{freq: 0, dur: 60 * time.Millisecond},
	{freq: 82, dur: 480 * time.Millisecond, amp: 0.3},
	{freq: 0, dur: 120 * time.Millisecond},
}

// builtinMusic repeats melody forever.
func builtinMusic() beep.Streamer {
	return beep.Iterate(func() beep.Streamer {
		return sequence(melody)
	})
}

// CueFor maps a game event to its sound, if it has one.
func CueFor(ev game.Event) (Cue, bool) {
	switch ev.Kind {
	case game.EventShotFired:
		return CueShot, true
	case game.EventAlienDestroyed:
		return CueHit, true
	case game.EventBreach:
		return CueBreach, true
	case game.EventWaveSpawned:
		return CueWave, true
	case game.EventGameOver:
		return CueGameOver, true
	default:
		return 0, false
	}
}

// Handle plays the cue for each event and follows mute toggles.
func Handle(p Player, events []game.Event) {
	for _, ev := range events {
		if ev.Kind == game.EventMuteToggled {
			p.SetMuted(ev.Muted)
			continue
		}
		if c, ok := CueFor(ev); ok {
			p.Play(c)
		}
	}
}
