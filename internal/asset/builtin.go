package asset

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// Built-in sprite identifiers.
const (
	BuiltinPrefix = "builtin:"
	BuiltinPlayer = BuiltinPrefix + "player"
	BuiltinAlien0 = BuiltinPrefix + "alien0"
	BuiltinAlien1 = BuiltinPrefix + "alien1"
)

// spriteSize is the pixel size of built-in sprites.
const spriteSize = 50

// ErrUnknownBuiltin is returned for a "builtin:" name with no sprite.
var ErrUnknownBuiltin = errors.New("asset: unknown built-in sprite")

// Builtin draws the named built-in sprite ("player", "alien0", "alien1").
func Builtin(name string) (image.Image, error) {
	switch name {
	case "player":
		return drawPlayer(), nil
	case "alien0":
		return drawSquid(), nil
	case "alien1":
		return drawCrab(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
}

// drawPlayer draws an upward-pointing ship.
func drawPlayer() image.Image {
	dc := gg.NewContext(spriteSize, spriteSize)

	// Hull
	dc.SetRGB255(60, 220, 120)
	dc.MoveTo(25, 2)
	dc.LineTo(46, 44)
	dc.LineTo(25, 34)
	dc.LineTo(4, 44)
	dc.ClosePath()
	dc.Fill()

	// Cockpit
	dc.SetRGB255(180, 240, 255)
	dc.DrawEllipse(25, 22, 4, 7)
	dc.Fill()

	// Engine
	dc.SetRGB255(255, 150, 40)
	dc.DrawRectangle(20, 40, 10, 8)
	dc.Fill()

	return dc.Image()
}

// drawSquid draws a dome-headed alien with tentacles.
func drawSquid() image.Image {
	dc := gg.NewContext(spriteSize, spriteSize)

	dc.SetRGB255(200, 90, 255)
	dc.DrawEllipse(25, 20, 18, 14)
	dc.Fill()
	dc.DrawRectangle(7, 20, 36, 10)
	dc.Fill()

	dc.SetLineWidth(4)
	for _, x := range []float64{11, 21, 29, 39} {
		dc.DrawLine(x, 28, x+(x-25)/4, 46)
		dc.Stroke()
	}

	// Eyes
	dc.SetRGB255(20, 10, 40)
	dc.DrawCircle(18, 19, 4)
	dc.DrawCircle(32, 19, 4)
	dc.Fill()

	return dc.Image()
}

// drawCrab draws a wide alien with raised claws.
func drawCrab() image.Image {
	dc := gg.NewContext(spriteSize, spriteSize)

	dc.SetRGB255(255, 170, 40)
	dc.DrawRoundedRectangle(8, 16, 34, 22, 6)
	dc.Fill()

	dc.SetLineWidth(4)
	dc.DrawLine(10, 20, 3, 6)
	dc.DrawLine(40, 20, 47, 6)
	dc.DrawLine(14, 38, 8, 47)
	dc.DrawLine(36, 38, 42, 47)
	dc.Stroke()

	dc.SetRGB255(40, 20, 0)
	dc.DrawRectangle(15, 22, 6, 6)
	dc.DrawRectangle(29, 22, 6, 6)
	dc.Fill()

	return dc.Image()
}
