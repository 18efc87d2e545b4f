package game

// movePlayer keeps the ship in bounds, then applies the movement intents.
// Each direction moves a full step or not at all, based on the pre-move x.
func (g *Game) movePlayer() {
	p := g.player
	p.X = g.clampPlayerX(p.X)

	half := p.HalfWidth()
	x := p.X
	if p.MovingLeft && x-p.Speed >= half {
		p.X -= p.Speed
	}
	if p.MovingRight && x+p.Speed <= g.width-half {
		p.X += p.Speed
	}
}

// updateBullets moves every bullet up and drops the ones that left the top.
func (g *Game) updateBullets() {
	kept := g.bullets[:0]
	for _, b := range g.bullets {
		if b.Advance() {
			kept = append(kept, b)
		}
	}
	clear(g.bullets[len(kept):])
	g.bullets = kept
}

// updateAliens moves the formation and removes aliens that reached the
// bottom zone, one life each.
func (g *Game) updateAliens() {
	reverse := false
	for _, a := range g.aliens {
		next := a.NextX()
		if next > g.width-a.Width || next < a.Width {
			reverse = true
			break
		}
	}

	for _, a := range g.aliens {
		if reverse {
			a.Direction = -a.Direction
			a.Y += FormationDrop
		}
		a.X += a.Speed * float64(a.Direction)
	}

	limit := g.height - BreachMargin
	kept := g.aliens[:0]
	for _, a := range g.aliens {
		if a.Y < limit {
			kept = append(kept, a)
			continue
		}
		if g.lives > 0 {
			g.lives--
		}
		g.emit(Event{Kind: EventBreach, X: a.X, Y: a.Y, Lives: g.lives})
	}
	clear(g.aliens[len(kept):])
	g.aliens = kept

	if g.lives == 0 {
		g.endRun()
	}
}
