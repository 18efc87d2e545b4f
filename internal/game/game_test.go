package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spacedefenders/internal/leaderboard"
	"github.com/tomz197/spacedefenders/internal/object"
	"github.com/tomz197/spacedefenders/internal/score"
)

func newTestGame(t *testing.T, vp Viewport, opts Options) (*Game, *score.Service) {
	t.Helper()
	svc := score.NewService(nil, nil)
	opts.Score = svc
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(12345))
	}
	return New(vp, opts), svc
}

// parked returns a stationary alien for hand-built scenarios.
func parked(x, y float64) *object.Alien {
	return object.NewAlien(x, y, 0, 0)
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestNewSpawnsFirstWave(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})

	snap := g.Snapshot()
	assert.Equal(t, Running, snap.State)
	assert.Equal(t, 1, snap.Wave)
	assert.Equal(t, InitialLives, snap.Lives)
	assert.Len(t, snap.Aliens, 8*2)
	assert.Empty(t, snap.Bullets)
	assert.Equal(t, 400.0, snap.Player.X)
	assert.Equal(t, 550.0, snap.Player.Y)

	events := g.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventWaveSpawned, events[0].Kind)
	assert.Equal(t, 1, events[0].Wave)
	assert.Nil(t, g.Events(), "events are drained")
}

func TestNewResetsCurrentScore(t *testing.T) {
	svc := score.NewService(nil, nil)
	svc.Increment(120)

	New(Bounds{W: 800, H: 600}, Options{Score: svc})
	assert.Zero(t, svc.Current())
	assert.Equal(t, 120, svc.High())
}

func TestFormationSizeByWave(t *testing.T) {
	wantCols := []int{8, 9, 9, 10, 10, 11, 11, 12, 12, 12}
	wantRows := []int{2, 2, 3, 3, 3, 4, 4, 4, 5, 5}

	for i := range wantCols {
		wave := i + 1
		cols, rows := FormationSize(wave)
		assert.Equal(t, wantCols[i], cols, "wave %d columns", wave)
		assert.Equal(t, wantRows[i], rows, "wave %d rows", wave)

		aliens := Formation(wave, 800, rand.New(rand.NewSource(1)))
		assert.Len(t, aliens, cols*rows, "wave %d count", wave)
	}
}

func TestFormationLayout(t *testing.T) {
	aliens := Formation(1, 800, rand.New(rand.NewSource(7)))
	require.Len(t, aliens, 16)

	// 80% of 800 is 640; eight columns of 50 leave 240 over seven gaps.
	spacing := 240.0/7 + 50
	assert.InDelta(t, 105.0, aliens[0].X, 1e-9)
	assert.InDelta(t, 75.0, aliens[0].Y, 1e-9)
	assert.InDelta(t, 105.0+spacing, aliens[1].X, 1e-9)
	assert.InDelta(t, 105.0+7*spacing, aliens[7].X, 1e-9)
	assert.InDelta(t, 145.0, aliens[8].Y, 1e-9)

	for _, a := range aliens {
		assert.Equal(t, 2.5, a.Speed)
		assert.Equal(t, 1, a.Direction)
		assert.Contains(t, []int{0, 1}, a.Type)
	}
}

func TestFormationMinimumSpacing(t *testing.T) {
	aliens := Formation(1, 300, rand.New(rand.NewSource(7)))
	assert.InDelta(t, MinColumnSpacing, aliens[1].X-aliens[0].X, 1e-9)

	// Still centered even though it is wider than the surface.
	first, last := aliens[0].X, aliens[7].X
	assert.InDelta(t, 150.0, (first+last)/2, 1e-9)
}

func TestFormationSeededTypes(t *testing.T) {
	a := Formation(3, 800, rand.New(rand.NewSource(42)))
	b := Formation(3, 800, rand.New(rand.NewSource(42)))
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Type, b[i].Type)
	}
}

func TestPlayerStaysInBounds(t *testing.T) {
	vp := &Bounds{W: 800, H: 600}
	g, _ := newTestGame(t, vp, Options{})
	g.aliens = []*object.Alien{parked(100, 75)}

	g.KeyDown(KeyRight)
	for range 100 {
		g.Tick()
		x := g.Snapshot().Player.X
		require.GreaterOrEqual(t, x, 25.0)
		require.LessOrEqual(t, x, 775.0)
	}
	assert.Equal(t, 771.0, g.Snapshot().Player.X, "last full step that fits")

	vp.W = 300
	g.Tick()
	assert.LessOrEqual(t, g.Snapshot().Player.X, 275.0)

	g.KeyUp(KeyRight)
	g.KeyDown(KeyLeft)
	for range 100 {
		g.Tick()
		assert.GreaterOrEqual(t, g.Snapshot().Player.X, 25.0)
	}
}

func TestPlayerCenteredOnNarrowSurface(t *testing.T) {
	vp := &Bounds{W: 800, H: 600}
	g, _ := newTestGame(t, vp, Options{})
	g.aliens = []*object.Alien{parked(100, 75)}

	vp.W, vp.H = 30, 400
	g.Tick()
	snap := g.Snapshot()
	assert.Equal(t, 15.0, snap.Player.X)
	assert.Equal(t, 350.0, snap.Player.Y)
}

func TestNegativeViewportClampedToZero(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: -10, H: -20}, Options{})
	snap := g.Snapshot()
	assert.Zero(t, snap.Width)
	assert.Zero(t, snap.Height)

	assert.NotPanics(t, func() {
		for range 5 {
			g.Tick()
		}
	})
}

func TestBulletsRiseAndExpire(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(100, 75)}

	g.KeyDown(KeyFire)
	snap := g.Snapshot()
	require.Len(t, snap.Bullets, 1)
	assert.Equal(t, 400.0, snap.Bullets[0].X)
	assert.Equal(t, 510.0, snap.Bullets[0].Y)

	last := snap.Bullets[0].Y
	for range 60 {
		g.Tick()
		bullets := g.Snapshot().Bullets
		if len(bullets) == 0 {
			break
		}
		require.Less(t, bullets[0].Y, last)
		require.Greater(t, bullets[0].Y, 0.0)
		last = bullets[0].Y
	}
	assert.Empty(t, g.Snapshot().Bullets)
	assert.Equal(t, 10.0, last)
}

func TestOneBulletPerFirePress(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.Events()

	g.KeyDown(KeyFire)
	g.KeyDown(KeyFire)
	g.KeyUp(KeyFire)
	assert.Len(t, g.Snapshot().Bullets, 2)
	assert.Equal(t, []EventKind{EventShotFired, EventShotFired}, kinds(g.Events()))
}

func TestPipelineRepeat(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{PipelineRepeat: 2})
	g.aliens = []*object.Alien{parked(100, 75)}

	g.KeyDown(KeyFire)
	g.Tick()
	assert.Equal(t, 490.0, g.Snapshot().Bullets[0].Y)
}

func TestFormationReversal(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	edge := object.NewAlien(749, 100, 0, 2.5)
	other := object.NewAlien(400, 100, 1, 2.5)
	g.aliens = []*object.Alien{edge, other}

	g.Tick()
	assert.Equal(t, -1, edge.Direction)
	assert.Equal(t, -1, other.Direction)
	assert.Equal(t, 130.0, edge.Y)
	assert.Equal(t, 130.0, other.Y)
	assert.Equal(t, 746.5, edge.X)
	assert.Equal(t, 397.5, other.X)

	g.Tick()
	assert.Equal(t, -1, edge.Direction, "no second reversal away from the edge")
	assert.Equal(t, 130.0, edge.Y)
}

func TestBreachCostsOneLife(t *testing.T) {
	g, svc := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(400, 590)}
	g.Events()

	g.Tick()
	snap := g.Snapshot()
	assert.Empty(t, snap.Aliens)
	assert.Equal(t, 4, snap.Lives)
	assert.Zero(t, svc.Current())
	assert.Equal(t, Running, snap.State)

	events := g.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventBreach, events[0].Kind)
	assert.Equal(t, 4, events[0].Lives)
}

func TestBreachBoundary(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(400, 499.5), parked(200, 500)}

	g.Tick()
	require.Len(t, g.aliens, 1)
	assert.Equal(t, 499.5, g.aliens[0].Y)
	assert.Equal(t, 4, g.lives)
}

func TestLastLifeEndsRun(t *testing.T) {
	g, svc := newTestGame(t, Bounds{W: 800, H: 600}, Options{PipelineRepeat: 2})
	svc.Increment(70)
	g.lives = 2
	g.aliens = []*object.Alien{parked(100, 590), parked(300, 590), parked(500, 590)}
	g.bullets = []*object.Bullet{object.NewBullet(700, 300)}
	g.Events()

	g.Tick()
	assert.Equal(t, GameOver, g.State())
	assert.Zero(t, g.lives, "never below zero")
	assert.Equal(t, 290.0, g.bullets[0].Y, "second pass skipped")
	assert.Equal(t, 70, g.FinalScore())

	events := g.Events()
	assert.Equal(t, []EventKind{EventBreach, EventBreach, EventBreach, EventGameOver}, kinds(events))
	assert.Equal(t, 70, events[3].Score)
}

func TestGameOverFreezesSimulation(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.lives = 1
	g.aliens = []*object.Alien{parked(100, 590), object.NewAlien(400, 100, 0, 2.5)}
	g.Tick()
	require.Equal(t, GameOver, g.State())
	g.Events()

	before := g.Snapshot()
	g.KeyDown(KeyFire)
	g.KeyDown(KeyRight)
	g.KeyDown(KeyPause)
	for range 10 {
		g.Tick()
	}
	after := g.Snapshot()
	assert.Equal(t, before, after)
	assert.Nil(t, g.Events())

	g.KeyDown(KeyMute)
	assert.True(t, g.Muted())
	assert.Equal(t, []EventKind{EventMuteToggled}, kinds(g.Events()))
}

func TestPauseResumeKeepsPositions(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.KeyDown(KeyRight)
	g.KeyDown(KeyFire)
	g.Tick()
	g.Events()

	g.KeyDown(KeyPause)
	require.Equal(t, Paused, g.State())
	before := g.Snapshot()

	for range 30 {
		g.Tick()
	}
	g.KeyDown(KeyFire)
	g.KeyDown(KeyLeft)
	assert.Equal(t, before.Bullets, g.Snapshot().Bullets)
	assert.Equal(t, before.Aliens, g.Snapshot().Aliens)
	assert.Equal(t, before.Player, g.Snapshot().Player)

	g.KeyDown(KeyPause)
	assert.Equal(t, Running, g.State())
	assert.Equal(t, []EventKind{EventPaused, EventResumed}, kinds(g.Events()))
	assert.Equal(t, before.Player, g.Snapshot().Player)
}

func TestKeyUpClearsIntentWhilePaused(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(100, 75)}
	g.KeyDown(KeyLeft)
	g.KeyDown(KeyPause)
	g.KeyUp(KeyLeft)
	g.KeyDown(KeyPause)

	x := g.Snapshot().Player.X
	g.Tick()
	assert.Equal(t, x, g.Snapshot().Player.X)
}

func TestMuteIsOrthogonalToState(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.Events()

	g.HandleKey(KeyEvent{Key: KeyMute, Down: true})
	g.HandleKey(KeyEvent{Key: KeyMute, Down: false})
	assert.True(t, g.Muted())
	assert.Equal(t, Running, g.State())

	g.KeyDown(KeyPause)
	g.KeyDown(KeyMute)
	assert.False(t, g.Muted())
	assert.Equal(t, Paused, g.State())
	assert.False(t, g.Snapshot().Muted)
}

func TestBulletHitsAlien(t *testing.T) {
	g, svc := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(100, 100)}
	g.bullets = []*object.Bullet{object.NewBullet(100, 100)}
	g.Events()

	g.resolveCollisions()
	assert.Empty(t, g.aliens)
	assert.Empty(t, g.bullets)
	assert.Equal(t, 100, svc.Current())

	events := g.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventAlienDestroyed, events[0].Kind)
	assert.Equal(t, 100, events[0].Points)
}

func TestBulletOnEdgeIsHit(t *testing.T) {
	corners := [][2]float64{{75, 75}, {125, 75}, {75, 125}, {125, 125}, {100, 75}}
	for _, c := range corners {
		g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
		g.aliens = []*object.Alien{parked(100, 100)}
		g.bullets = []*object.Bullet{object.NewBullet(c[0], c[1])}

		g.resolveCollisions()
		assert.Empty(t, g.aliens, "bullet at %v", c)
	}

	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = []*object.Alien{parked(100, 100)}
	g.bullets = []*object.Bullet{object.NewBullet(125.01, 100)}
	g.resolveCollisions()
	assert.Len(t, g.aliens, 1)
	assert.Len(t, g.bullets, 1)
}

func TestFirstMatchWins(t *testing.T) {
	g, svc := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	first, second := parked(100, 100), parked(110, 100)
	g.aliens = []*object.Alien{first, second}
	g.bullets = []*object.Bullet{object.NewBullet(105, 100), object.NewBullet(105, 101), object.NewBullet(400, 400)}

	g.resolveCollisions()
	assert.Empty(t, g.aliens, "second bullet takes the next alien")
	require.Len(t, g.bullets, 1)
	assert.Equal(t, 400.0, g.bullets[0].X)
	assert.Equal(t, 200, svc.Current())

	g.aliens = []*object.Alien{parked(100, 100)}
	g.bullets = []*object.Bullet{object.NewBullet(100, 100), object.NewBullet(100, 95)}
	g.resolveCollisions()
	assert.Empty(t, g.aliens)
	require.Len(t, g.bullets, 1, "a dead alien is not matched again")
	assert.Equal(t, 95.0, g.bullets[0].Y)
}

func TestAlienPoints(t *testing.T) {
	tests := []struct {
		y, h float64
		want int
	}{
		{100, 600, 100},
		{590, 600, 10},
		{549, 600, 10},
		{500, 600, 20},
		{75, 600, 100},
		{650, 600, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlienPoints(tt.y, tt.h), "y=%v h=%v", tt.y, tt.h)
	}
}

func TestWaveCompletionSpawnsNext(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.Tick()
	g.aliens = nil
	g.Events()

	g.Tick()
	snap := g.Snapshot()
	assert.Equal(t, 2, snap.Wave)
	assert.Len(t, snap.Aliens, 9*2)
	assert.Equal(t, 3.0, snap.Aliens[0].Speed)

	events := g.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventWaveSpawned, events[0].Kind)
	assert.Equal(t, 2, events[0].Wave)
}

func TestNoSpawnOnFirstTick(t *testing.T) {
	g, _ := newTestGame(t, Bounds{W: 800, H: 600}, Options{})
	g.aliens = nil
	g.Events()

	g.Tick()
	assert.Empty(t, g.Snapshot().Aliens)
	assert.Equal(t, 1, g.Snapshot().Wave)

	g.Tick()
	assert.Equal(t, 2, g.Snapshot().Wave)
	assert.NotEmpty(t, g.Snapshot().Aliens)
}

type fakeBoard struct {
	posted []leaderboard.Entry
	top    []leaderboard.Entry
}

func (f *fakeBoard) PostScore(_ context.Context, score int, name string) {
	f.posted = append(f.posted, leaderboard.Entry{Name: name, Score: score})
}

func (f *fakeBoard) TopScores(_ context.Context, limit int) []leaderboard.Entry {
	return f.top[:min(limit, len(f.top))]
}

func TestSubmitResult(t *testing.T) {
	board := &fakeBoard{top: []leaderboard.Entry{{Name: "a", Score: 9}, {Name: "b", Score: 5}}}
	g, svc := newTestGame(t, Bounds{W: 800, H: 600}, Options{Leaderboard: board})

	assert.Nil(t, g.SubmitResult(context.Background(), "ada", 10))
	assert.Empty(t, board.posted, "nothing posted while running")

	svc.Increment(40)
	g.lives = 1
	g.aliens = []*object.Alien{parked(100, 590)}
	g.Tick()
	require.Equal(t, GameOver, g.State())

	top := g.SubmitResult(context.Background(), "ada", 1)
	assert.Equal(t, []leaderboard.Entry{{Name: "ada", Score: 40}}, board.posted)
	assert.Equal(t, []leaderboard.Entry{{Name: "a", Score: 9}}, top)
}

func TestDefaultsWithoutOptions(t *testing.T) {
	g := New(Bounds{W: 800, H: 600}, Options{})
	g.lives = 1
	g.aliens = []*object.Alien{parked(100, 590)}
	g.Tick()
	require.Equal(t, GameOver, g.State())
	assert.Nil(t, g.SubmitResult(context.Background(), "", 0))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "game-over", GameOver.String())
	assert.Equal(t, "breach", EventBreach.String())
	assert.Equal(t, "fire", KeyFire.String())
}
