package game

import "github.com/tomz197/spacedefenders/internal/object"

// Key is a logical game key.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyPause
	KeyMute
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyFire:
		return "fire"
	case KeyPause:
		return "pause"
	case KeyMute:
		return "mute"
	default:
		return "unknown"
	}
}

// KeyEvent is a key press (Down) or release.
type KeyEvent struct {
	Key  Key
	Down bool
}

// HandleKey dispatches ev to KeyDown or KeyUp.
func (g *Game) HandleKey(ev KeyEvent) {
	if ev.Down {
		g.KeyDown(ev.Key)
	} else {
		g.KeyUp(ev.Key)
	}
}

// KeyDown applies a key press. Mute works in every state, pause toggles
// outside GameOver, and movement and fire only act while Running.
func (g *Game) KeyDown(k Key) {
	switch k {
	case KeyMute:
		g.muted = !g.muted
		g.emit(Event{Kind: EventMuteToggled, Muted: g.muted})
		return
	case KeyPause:
		g.togglePause()
		return
	}

	if g.state != Running {
		return
	}
	switch k {
	case KeyLeft:
		g.player.MovingLeft = true
	case KeyRight:
		g.player.MovingRight = true
	case KeyFire:
		g.fire()
	}
}

// KeyUp applies a key release. Releasing a direction always clears its intent.
func (g *Game) KeyUp(k Key) {
	switch k {
	case KeyLeft:
		g.player.MovingLeft = false
	case KeyRight:
		g.player.MovingRight = false
	}
}

func (g *Game) togglePause() {
	switch g.state {
	case Running:
		g.state = Paused
		g.emit(Event{Kind: EventPaused})
	case Paused:
		g.state = Running
		g.emit(Event{Kind: EventResumed})
	}
}

// fire adds one bullet at the ship's muzzle.
func (g *Game) fire() {
	x, y := g.player.Muzzle()
	g.bullets = append(g.bullets, object.NewBullet(x, y))
	g.emit(Event{Kind: EventShotFired, X: x, Y: y})
}
