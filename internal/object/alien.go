package object

// Alien dimensions. Every formation uses the same size.
const (
	AlienWidth  = 50.0
	AlienHeight = 50.0
)

// AlienTypes is the number of visual variants.
const AlienTypes = 2

// Alien is one member of a formation.
type Alien struct {
	X, Y          float64 // Center position
	Width, Height float64
	Type          int     // Visual variant, 0 or 1
	Speed         float64 // Horizontal units per pass, shared by the formation
	Direction     int     // +1 right, -1 left
}

// NewAlien creates an alien centered at (x, y) heading right.
func NewAlien(x, y float64, typ int, speed float64) *Alien {
	return &Alien{
		X:         x,
		Y:         y,
		Width:     AlienWidth,
		Height:    AlienHeight,
		Type:      typ,
		Speed:     speed,
		Direction: 1,
	}
}

// NextX returns the horizontal position after one more pass in the current
// direction.
func (a *Alien) NextX() float64 {
	return a.X + a.Speed*float64(a.Direction)
}

// Bounds returns the alien's bounding box.
func (a *Alien) Bounds() Rect {
	return CenteredRect(a.X, a.Y, a.Width, a.Height)
}
