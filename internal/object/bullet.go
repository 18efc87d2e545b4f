package object

// BulletSpeed is how far a bullet climbs per pipeline pass.
const BulletSpeed = 10.0

// BulletSpawnOffset is the distance above the ship center where bullets appear.
const BulletSpawnOffset = 40.0

// Bullet dimensions used only for drawing; hits are tested against the point.
const (
	BulletDrawWidth  = 4.0
	BulletDrawHeight = 20.0
)

// Bullet is a shot fired by the player. It travels straight up.
type Bullet struct {
	X, Y  float64
	Speed float64
}

// NewBullet creates a bullet at (x, y).
func NewBullet(x, y float64) *Bullet {
	return &Bullet{
		X:     x,
		Y:     y,
		Speed: BulletSpeed,
	}
}

// Advance moves the bullet one pass up and reports whether it is still on
// the surface.
func (b *Bullet) Advance() (alive bool) {
	b.Y -= b.Speed
	return b.Y > 0
}
