// Package object defines the entity records stepped by the simulation.
// Positions are logical surface units with the origin at the top-left corner
// and y growing downward.
package object

// Rect is an axis-aligned box described by its edges.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// CenteredRect returns the box of size w×h centered on (cx, cy).
func CenteredRect(cx, cy, w, h float64) Rect {
	return Rect{
		Left:   cx - w/2,
		Top:    cy - h/2,
		Right:  cx + w/2,
		Bottom: cy + h/2,
	}
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}
