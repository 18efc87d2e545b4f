package object

// Player ship dimensions and speed.
const (
	PlayerWidth  = 50.0
	PlayerHeight = 50.0
	PlayerSpeed  = 7.0 // Units per pipeline pass
)

// Player is the ship at the bottom of the surface.
type Player struct {
	X, Y          float64 // Center position
	Width, Height float64
	Speed         float64

	// Intents set by input, consumed by the movement step.
	MovingLeft  bool
	MovingRight bool
}

// NewPlayer creates a ship centered at (x, y).
func NewPlayer(x, y float64) *Player {
	return &Player{
		X:      x,
		Y:      y,
		Width:  PlayerWidth,
		Height: PlayerHeight,
		Speed:  PlayerSpeed,
	}
}

// HalfWidth returns half the ship width, the closest the center may get to
// either side of the surface.
func (p *Player) HalfWidth() float64 {
	return p.Width / 2
}

// Bounds returns the ship's bounding box.
func (p *Player) Bounds() Rect {
	return CenteredRect(p.X, p.Y, p.Width, p.Height)
}

// Muzzle returns the spawn point for a bullet fired by this ship.
func (p *Player) Muzzle() (x, y float64) {
	return p.X, p.Y - BulletSpawnOffset
}
