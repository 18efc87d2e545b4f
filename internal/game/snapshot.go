package game

import "github.com/tomz197/spacedefenders/internal/object"

// Snapshot is a read-only copy of the game for rendering.
type Snapshot struct {
	Width, Height float64
	State         State
	Player        object.Player
	Aliens        []object.Alien
	Bullets       []object.Bullet
	Wave          int // Number of the formation on screen
	Lives         int
	Score         int
	HighScore     int
	Muted         bool
}

// Snapshot copies the current state. The result shares nothing with the game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Width:     g.width,
		Height:    g.height,
		State:     g.state,
		Player:    *g.player,
		Aliens:    make([]object.Alien, len(g.aliens)),
		Bullets:   make([]object.Bullet, len(g.bullets)),
		Wave:      g.wave - 1,
		Lives:     g.lives,
		Score:     g.score.Current(),
		HighScore: g.score.High(),
		Muted:     g.muted,
	}
	for i, a := range g.aliens {
		s.Aliens[i] = *a
	}
	for i, b := range g.bullets {
		s.Bullets[i] = *b
	}
	if g.state == GameOver {
		s.Score = g.finalScore
	}
	return s
}
