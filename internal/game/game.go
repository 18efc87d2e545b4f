// Package game is the simulation core: the per-tick pipeline that moves the
// ship, bullets and alien formation, resolves hits, spawns waves and tracks
// the Running/Paused/GameOver state. It draws nothing and reads no input
// device; adapters feed it key events and render its snapshots.
package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/tomz197/spacedefenders/internal/leaderboard"
	"github.com/tomz197/spacedefenders/internal/object"
	"github.com/tomz197/spacedefenders/internal/physics"
	"github.com/tomz197/spacedefenders/internal/score"
)

// State is the run state.
type State int

const (
	Running State = iota
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Viewport reports the current surface size in logical units.
type Viewport interface {
	Size() (w, h float64)
}

// Bounds is a fixed-size Viewport.
type Bounds struct {
	W, H float64
}

// Size returns the stored dimensions.
func (b Bounds) Size() (w, h float64) {
	return b.W, b.H
}

// Scorer records points for the current run and tracks the high score.
// *score.Service implements it.
type Scorer interface {
	Increment(points int)
	Reset()
	Current() int
	High() int
}

// Options configures a Game. Zero values pick defaults.
type Options struct {
	Score          Scorer             // Defaults to an in-memory score.Service
	Leaderboard    leaderboard.Client // Defaults to leaderboard.Disabled
	Rand           *rand.Rand         // Alien types; defaults to a time-seeded source
	PipelineRepeat int                // Passes per tick; defaults to DefaultPipelineRepeat
}

// Game owns the player, aliens and bullets of one run.
// It is not safe for concurrent use, except SubmitResult and FinalScore
// once the game is over.
type Game struct {
	viewport      Viewport
	width, height float64

	player  *object.Player
	aliens  []*object.Alien
	bullets []*object.Bullet

	wave        int // Number of the next formation
	lives       int
	state       State
	muted       bool
	justSpawned bool // Suppresses the wave check on the first tick
	finalScore  int

	repeat int
	score  Scorer
	board  leaderboard.Client
	rng    *rand.Rand
	events []Event
}

// New creates a running game sized to viewport and spawns the first wave.
// The score for the current run is reset.
func New(viewport Viewport, opts Options) *Game {
	if opts.Score == nil {
		opts.Score = score.NewService(nil, nil)
	}
	if opts.Leaderboard == nil {
		opts.Leaderboard = leaderboard.Disabled{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.PipelineRepeat <= 0 {
		opts.PipelineRepeat = DefaultPipelineRepeat
	}

	g := &Game{
		viewport: viewport,
		wave:     InitialWave,
		lives:    InitialLives,
		state:    Running,
		repeat:   opts.PipelineRepeat,
		score:    opts.Score,
		board:    opts.Leaderboard,
		rng:      opts.Rand,
	}
	g.width, g.height = g.viewportSize()
	g.player = object.NewPlayer(g.width/2, g.height-object.PlayerHeight)
	g.score.Reset()

	g.spawnWave()
	g.justSpawned = true
	return g
}

// Tick advances the simulation by one frame.
func (g *Game) Tick() {
	if g.state == GameOver {
		return
	}
	g.syncViewport()
	if g.state != Running {
		return
	}

	for range g.repeat {
		g.movePlayer()
		g.updateBullets()
		g.updateAliens()
		if g.state == GameOver {
			return
		}
		g.resolveCollisions()
	}

	if len(g.aliens) == 0 && !g.justSpawned {
		g.spawnWave()
	}
	g.justSpawned = false
}

// State returns the run state.
func (g *Game) State() State {
	return g.state
}

// Muted reports whether sound is muted.
func (g *Game) Muted() bool {
	return g.muted
}

// FinalScore returns the score captured when the game ended.
func (g *Game) FinalScore() int {
	return g.finalScore
}

// SubmitResult posts the final score under name and returns the top limit
// entries. It does nothing before GameOver. The leaderboard client is
// fail-soft, so an unreachable backend yields nil.
func (g *Game) SubmitResult(ctx context.Context, name string, limit int) []leaderboard.Entry {
	if g.state != GameOver {
		return nil
	}
	g.board.PostScore(ctx, g.finalScore, name)
	return g.board.TopScores(ctx, leaderboard.ClampLimit(limit))
}

func (g *Game) viewportSize() (w, h float64) {
	w, h = g.viewport.Size()
	return max(w, 0), max(h, 0)
}

// syncViewport picks up a resized surface. The ship stays on the bottom edge
// and inside the horizontal bounds.
func (g *Game) syncViewport() {
	w, h := g.viewportSize()
	if w == g.width && h == g.height {
		return
	}
	g.width, g.height = w, h
	g.player.Y = h - g.player.Height
	g.player.X = g.clampPlayerX(g.player.X)
}

func (g *Game) clampPlayerX(x float64) float64 {
	half := g.player.HalfWidth()
	return physics.Clamp(x, half, g.width-half)
}

func (g *Game) endRun() {
	g.state = GameOver
	g.finalScore = g.score.Current()
	g.player.MovingLeft = false
	g.player.MovingRight = false
	g.emit(Event{Kind: EventGameOver, Lives: g.lives, Score: g.finalScore})
}
