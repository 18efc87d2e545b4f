// Package render draws game snapshots onto a Surface: the sprites, the HUD,
// and the wave, pause and game-over screens.
package render

import (
	"image"
	"image/color"

	"github.com/tomz197/spacedefenders/internal/object"
)

// Align anchors text horizontally on its x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font selects a text style.
type Font int

const (
	FontBody Font = iota
	FontTitle
	FontAlert
)

// Fill is how FillRect paints: a solid color or erasing to the background.
type Fill struct {
	Color color.RGBA
	Erase bool
}

// Solid returns a fill painting c.
func Solid(c color.RGBA) Fill {
	return Fill{Color: c}
}

// Erase clears to the background.
var Erase = Fill{Erase: true}

// Palette
var (
	ColorWhite  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ColorRed    = color.RGBA{R: 0xff, A: 0xff}
	ColorYellow = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
	ColorGray   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Surface is a 2D drawing target in logical units, origin top-left.
// Drawing is buffered until Present.
type Surface interface {
	Size() (w, h float64)
	Clear()
	DrawImage(img image.Image, r object.Rect)
	FillRect(r object.Rect, f Fill)
	DrawText(text string, x, y float64, align Align, font Font)
	Present() error
}
