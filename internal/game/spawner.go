package game

import (
	"math/rand"

	"github.com/tomz197/spacedefenders/internal/object"
)

// FormationSize returns the grid dimensions for a wave number.
func FormationSize(wave int) (columns, rows int) {
	columns = min(BaseColumns+wave/2, MaxColumns)
	rows = min(BaseRows+wave/3, MaxRows)
	return columns, rows
}

// AlienSpeed returns the horizontal speed of a wave's formation.
func AlienSpeed(wave int) float64 {
	return BaseAlienSpeed + AlienSpeedPerWave*float64(wave)
}

// Formation lays out the aliens of a wave centered on a surface of the given
// width. Types are drawn from rng.
func Formation(wave int, width float64, rng *rand.Rand) []*object.Alien {
	columns, rows := FormationSize(wave)
	w, h := object.AlienWidth, object.AlienHeight

	total := width * FormationWidthFraction
	spacing := max((total-float64(columns)*w)/float64(columns-1)+w, MinColumnSpacing)
	formationWidth := float64(columns-1)*spacing + w
	startX := (width - formationWidth) / 2
	speed := AlienSpeed(wave)

	aliens := make([]*object.Alien, 0, columns*rows)
	for row := range rows {
		for col := range columns {
			x := startX + float64(col)*spacing + w/2
			y := FormationTop + float64(row)*RowSpacing + h/2
			aliens = append(aliens, object.NewAlien(x, y, rng.Intn(object.AlienTypes), speed))
		}
	}
	return aliens
}

// spawnWave replaces the formation with the next wave.
func (g *Game) spawnWave() {
	g.aliens = Formation(g.wave, g.width, g.rng)
	g.emit(Event{Kind: EventWaveSpawned, Wave: g.wave})
	g.wave++
}
