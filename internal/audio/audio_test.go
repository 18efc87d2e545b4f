package audio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spacedefenders/internal/game"
)

// drain reads s to the end and returns every sample.
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for range 10_000 {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("streamer did not end")
	return nil
}

func TestCueStreamersAreFiniteAndBounded(t *testing.T) {
	for _, c := range []Cue{CueShot, CueHit, CueBreach, CueWave, CueGameOver} {
		samples := drain(t, cueStreamer(c))
		require.NotEmpty(t, samples, "cue %d", c)

		var want int
		for _, n := range cues[c] {
			want += sampleRate.N(n.dur)
		}
		assert.Equal(t, want, len(samples), "cue %d", c)

		for _, s := range samples {
			assert.LessOrEqual(t, s[0], 1.0)
			assert.GreaterOrEqual(t, s[0], -1.0)
			assert.Equal(t, s[0], s[1])
		}
	}
}

func TestUnknownCue(t *testing.T) {
	assert.Nil(t, cueStreamer(Cue(99)))
}

func TestToneDecays(t *testing.T) {
	samples := drain(t, tone(note{freq: 440, dur: 50 * time.Millisecond, amp: 0.5}))

	peak := func(part [][2]float64) float64 {
		var m float64
		for _, s := range part {
			m = max(m, s[0], -s[0])
		}
		return m
	}
	n := len(samples)
	assert.Greater(t, peak(samples[:n/4]), peak(samples[3*n/4:]))
}

func TestRestIsSilent(t *testing.T) {
	samples := drain(t, tone(note{dur: 20 * time.Millisecond}))
	require.Len(t, samples, sampleRate.N(20*time.Millisecond))
	for _, s := range samples {
		assert.Zero(t, s[0])
	}
}

func TestBuiltinMusicLoops(t *testing.T) {
	var period int
	for _, n := range melody {
		period += sampleRate.N(n.dur)
	}

	buf := make([][2]float64, period+100)
	n, ok := builtinMusic().Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)
}

func TestOpenMusicErrors(t *testing.T) {
	_, _, err := openMusic("")
	assert.Error(t, err)

	_, _, err = openMusic(filepath.Join(t.TempDir(), "missing.ogg"))
	assert.Error(t, err)
}

type recorder struct {
	played []Cue
	muted  []bool
}

func (r *recorder) Play(c Cue)          { r.played = append(r.played, c) }
func (r *recorder) SetMuted(muted bool) { r.muted = append(r.muted, muted) }
func (r *recorder) Close()              {}

func TestHandle(t *testing.T) {
	rec := &recorder{}
	Handle(rec, []game.Event{
		{Kind: game.EventShotFired},
		{Kind: game.EventPaused},
		{Kind: game.EventAlienDestroyed, Points: 40},
		{Kind: game.EventMuteToggled, Muted: true},
		{Kind: game.EventBreach},
		{Kind: game.EventWaveSpawned, Wave: 2},
		{Kind: game.EventGameOver},
	})

	assert.Equal(t, []Cue{CueShot, CueHit, CueBreach, CueWave, CueGameOver}, rec.played)
	assert.Equal(t, []bool{true}, rec.muted)
}

func TestNopIsSilent(t *testing.T) {
	var p Player = Nop{}
	p.Play(CueShot)
	p.SetMuted(true)
	p.Close()
}
