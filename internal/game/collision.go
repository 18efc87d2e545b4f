package game

import (
	"math"

	"github.com/tomz197/spacedefenders/internal/physics"
)

// AlienPoints returns the points for destroying an alien centered at y on a
// surface of height h.
func AlienPoints(y, h float64) int {
	bands := int(math.Floor((h - y) / PointsBand))
	return max(MinAlienPoints, bands*PointsPerBand)
}

// resolveCollisions matches every bullet against the live aliens. The first
// alien a bullet hits consumes it; a destroyed alien is never matched again.
func (g *Game) resolveCollisions() {
	if len(g.bullets) == 0 || len(g.aliens) == 0 {
		return
	}

	bulletHit := make([]bool, len(g.bullets))
	alienDead := make([]bool, len(g.aliens))

	for i, b := range g.bullets {
		for j, a := range g.aliens {
			if alienDead[j] || !physics.PointInRect(b.X, b.Y, a.Bounds()) {
				continue
			}
			bulletHit[i] = true
			alienDead[j] = true

			points := AlienPoints(a.Y, g.height)
			g.score.Increment(points)
			g.emit(Event{Kind: EventAlienDestroyed, X: a.X, Y: a.Y, Points: points})
			break
		}
	}

	g.bullets = compact(g.bullets, bulletHit)
	g.aliens = compact(g.aliens, alienDead)
}

// compact drops the entries flagged in removed, preserving order.
func compact[T any](items []T, removed []bool) []T {
	kept := items[:0]
	for i, it := range items {
		if !removed[i] {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}
