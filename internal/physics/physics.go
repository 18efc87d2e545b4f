// Package physics provides overlap tests and range helpers for the simulation.
package physics

import "github.com/tomz197/spacedefenders/internal/object"

// PointInRect reports whether (px, py) lies inside r. Edges count as inside.
func PointInRect(px, py float64, r object.Rect) bool {
	return px >= r.Left && px <= r.Right && py >= r.Top && py <= r.Bottom
}

// Clamp limits v to [lo, hi]. If the range is empty the midpoint is returned.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
