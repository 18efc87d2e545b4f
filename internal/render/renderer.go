package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/leaderboard"
	"github.com/tomz197/spacedefenders/internal/object"
)

// BannerFrames is how long the "Wave N" banner stays up.
const BannerFrames = 90

// HUD layout, logical units.
const (
	lifeIconSize = 25.0
	lifeIconGap  = 10.0
	hudMargin    = 10.0
	soundBoxW    = 190.0
	soundBoxH    = 40.0
	lineHeight   = 40.0
)

// Results is the leaderboard state shown on the game-over screen.
type Results struct {
	Pending bool                // Submission in flight
	Done    bool                // Submission finished
	Top     []leaderboard.Entry // Empty when the leaderboard is unavailable
}

// Renderer draws snapshots. It keeps the wave banner timer between frames.
type Renderer struct {
	sprites      *asset.Sprites
	bannerWave   int
	bannerFrames int
	notice       []string
}

// NewRenderer creates a renderer drawing with sprites. Missing sprites are
// drawn as solid boxes.
func NewRenderer(sprites *asset.Sprites) *Renderer {
	if sprites == nil {
		sprites = &asset.Sprites{}
	}
	return &Renderer{sprites: sprites}
}

// Notify lets the renderer react to game events.
func (r *Renderer) Notify(ev game.Event) {
	if ev.Kind == game.EventWaveSpawned {
		r.bannerWave = ev.Wave
		r.bannerFrames = BannerFrames
	}
}

// SetNotice shows lines in a panel over every state until cleared with no
// arguments.
func (r *Renderer) SetNotice(lines ...string) {
	r.notice = lines
}

// Draw renders one frame and presents it.
func (r *Renderer) Draw(s Surface, snap game.Snapshot, results Results) error {
	s.Clear()
	w, h := snap.Width, snap.Height

	if snap.State != game.GameOver {
		r.drawEntities(s, snap)
	}
	r.drawHUD(s, snap)

	switch snap.State {
	case game.Running:
		if r.bannerFrames > 0 {
			s.DrawText(fmt.Sprintf("Wave %d", r.bannerWave), w/2, h/2, AlignCenter, FontTitle)
			r.bannerFrames--
		}
	case game.Paused:
		drawPaused(s, w, h)
	case game.GameOver:
		drawGameOver(s, w, h, snap.Score, results)
	}
	if len(r.notice) > 0 {
		drawNotice(s, w, h, r.notice)
	}

	return s.Present()
}

func (r *Renderer) drawEntities(s Surface, snap game.Snapshot) {
	drawSprite(s, r.sprites.Player, snap.Player.Bounds(), ColorWhite)
	for _, a := range snap.Aliens {
		drawSprite(s, r.sprites.Alien(a.Type), a.Bounds(), ColorGray)
	}
	for _, b := range snap.Bullets {
		s.FillRect(object.CenteredRect(b.X, b.Y, object.BulletDrawWidth, object.BulletDrawHeight), Solid(ColorRed))
	}
}

// drawSprite falls back to a solid box when a sprite is missing.
func drawSprite(s Surface, img image.Image, r object.Rect, fallback color.RGBA) {
	if img == nil {
		s.FillRect(r, Solid(fallback))
		return
	}
	s.DrawImage(img, r)
}

func (r *Renderer) drawHUD(s Surface, snap game.Snapshot) {
	for i := range snap.Lives {
		x := hudMargin + float64(i)*(lifeIconSize+lifeIconGap)
		drawSprite(s, r.sprites.Player, object.Rect{
			Left: x, Top: hudMargin, Right: x + lifeIconSize, Bottom: hudMargin + lifeIconSize,
		}, ColorWhite)
	}
	s.DrawText(fmt.Sprintf("Score: %d | High Score: %d", snap.Score, snap.HighScore),
		hudMargin, hudMargin+lifeIconSize+lineHeight/2, AlignLeft, FontBody)

	box := object.Rect{
		Left:   snap.Width - soundBoxW - hudMargin,
		Top:    hudMargin,
		Right:  snap.Width - hudMargin,
		Bottom: hudMargin + soundBoxH,
	}
	s.FillRect(box, Erase)
	sound := "ON"
	if snap.Muted {
		sound = "OFF"
	}
	s.DrawText("Sound: "+sound, snap.Width-2*hudMargin, hudMargin+soundBoxH/2, AlignRight, FontBody)
}

func drawPaused(s Surface, w, h float64) {
	s.FillRect(object.CenteredRect(w/2, h/2+lineHeight/2, 300, 3*lineHeight), Erase)
	s.DrawText("PAUSED", w/2, h/2, AlignCenter, FontTitle)
	s.DrawText("Press P to resume", w/2, h/2+lineHeight, AlignCenter, FontBody)
}

func drawGameOver(s Surface, w, h float64, score int, results Results) {
	s.FillRect(object.Rect{Right: w, Bottom: h}, Erase)

	top := h/2 - 3*lineHeight
	s.DrawText("GAME OVER", w/2, top, AlignCenter, FontAlert)
	s.DrawText(fmt.Sprintf("Final Score: %d", score), w/2, top+lineHeight, AlignCenter, FontBody)

	y := top + 2.5*lineHeight
	switch {
	case results.Pending:
		s.DrawText("Publishing score...", w/2, y, AlignCenter, FontBody)
		y += lineHeight
	case len(results.Top) > 0:
		s.DrawText("Top Scores", w/2, y, AlignCenter, FontTitle)
		y += lineHeight
		for i, e := range results.Top {
			s.DrawText(fmt.Sprintf("%2d. %-16s %7d", i+1, e.Name, e.Score), w/2, y, AlignCenter, FontBody)
			y += lineHeight / 2
		}
		y += lineHeight / 2
	case results.Done:
		s.DrawText("Leaderboard unavailable", w/2, y, AlignCenter, FontBody)
		y += lineHeight
	}

	s.DrawText("Press Q to quit", w/2, y+lineHeight/2, AlignCenter, FontBody)
}

func drawNotice(s Surface, w, h float64, lines []string) {
	height := float64(len(lines)+1) * lineHeight / 2
	top := h - height - hudMargin
	s.FillRect(object.Rect{Left: 0, Top: top, Right: w, Bottom: h - hudMargin}, Erase)
	for i, line := range lines {
		font := FontBody
		if i == 0 {
			font = FontAlert
		}
		s.DrawText(line, w/2, top+float64(i+1)*lineHeight/2, AlignCenter, font)
	}
}
