// Package draw renders to a terminal using colored half-block characters.
// Each terminal cell holds two vertically stacked pixels, and drawing happens
// in a logical coordinate space scaled onto those pixels.
package draw

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// Half-block glyphs.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockFull      = '█'
)

// alphaThreshold is the minimum source alpha (of 0xffff) for an image pixel
// to be drawn.
const alphaThreshold = 0x8000

type pixel struct {
	c  color.RGBA
	on bool
}

// cell is one terminal character: two pixels. stale marks a cell that must be
// repainted regardless of its pixels.
type cell struct {
	top, bottom pixel
	stale       bool
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []pixel // Flat slice: [y * termWidth + x]
	prev           []cell  // Cells as last written to the terminal
	redraw         bool    // Repaint every cell on the next Render

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf bytes.Buffer
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight, logicalWidth, logicalHeight)
	return c
}

// Resize updates the terminal and logical dimensions. Buffers are
// reallocated only when the terminal size changes.
func (c *Canvas) Resize(termWidth, termHeight int, logicalWidth, logicalHeight float64) {
	termWidth, termHeight = max(termWidth, 0), max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]pixel, subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.redraw = true
	}

	c.logicalWidth = logicalWidth
	c.logicalHeight = logicalHeight
	c.scaleX, c.scaleY = 0, 0
	if logicalWidth > 0 {
		c.scaleX = float64(termWidth) / logicalWidth
	}
	if logicalHeight > 0 {
		c.scaleY = float64(subPixelHeight) / logicalHeight
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.redraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// Touch marks n cells starting at the 1-based canvas position (col, row) as
// overwritten by something else, so the next Render repaints them.
func (c *Canvas) Touch(col, row, n int) {
	if row < 1 || row > c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+n, c.termWidth)
	for x := start; x < end; x++ {
		c.prev[(row-1)*c.termWidth+x].stale = true
	}
}

func (c *Canvas) setPixel(x, y int, p pixel) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = p
	}
}

// pixelSpan maps a logical interval onto pixel indices [p0, p1). Any
// non-empty interval covers at least one pixel.
func pixelSpan(start, length, scale float64) (p0, p1 int) {
	p0 = int(math.Floor(start * scale))
	p1 = int(math.Ceil((start + length) * scale))
	if length > 0 && p1 <= p0 {
		p1 = p0 + 1
	}
	return p0, p1
}

// FillRect fills the logical rectangle with col.
func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.fill(x, y, w, h, pixel{c: col, on: true})
}

// EraseRect clears the logical rectangle.
func (c *Canvas) EraseRect(x, y, w, h float64) {
	c.fill(x, y, w, h, pixel{})
}

func (c *Canvas) fill(x, y, w, h float64, p pixel) {
	x0, x1 := pixelSpan(x, w, c.scaleX)
	y0, y1 := pixelSpan(y, h, c.scaleY)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.setPixel(px, py, p)
		}
	}
}

// DrawImage scales img into the logical rectangle by nearest-neighbour
// sampling. Transparent source pixels leave the canvas untouched.
func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	x0, x1 := pixelSpan(x, w, c.scaleX)
	y0, y1 := pixelSpan(y, h, c.scaleY)
	pw, ph := float64(x1-x0), float64(y1-y0)

	for py := y0; py < y1; py++ {
		sy := b.Min.Y + int((float64(py-y0)+0.5)/ph*float64(b.Dy()))
		for px := x0; px < x1; px++ {
			sx := b.Min.X + int((float64(px-x0)+0.5)/pw*float64(b.Dx()))
			r, g, bl, a := img.At(sx, sy).RGBA()
			if a < alphaThreshold {
				continue
			}
			// Undo premultiplication.
			col := color.RGBA{
				R: uint8(r * 0xff / a),
				G: uint8(g * 0xff / a),
				B: uint8(bl * 0xff / a),
				A: 0xff,
			}
			c.setPixel(px, py, pixel{c: col, on: true})
		}
	}
}

// Render writes the cells that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	lastSGR := ""
	nextCol, nextRow := -1, -1 // Where the cursor already is
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			ce := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if !c.redraw && c.prev[idx] == ce {
				continue
			}
			c.prev[idx] = ce

			if col != nextCol || row != nextRow {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			sgr, ch := glyph(ce)
			if sgr != lastSGR {
				c.renderBuf.WriteString(sgr)
				lastSGR = sgr
			}
			c.renderBuf.WriteRune(ch)
			nextCol, nextRow = col+1, row
		}
	}
	c.redraw = false

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(seqReset)
	_, _ = w.Write(c.renderBuf.Bytes())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// glyph picks the character and color sequence for a cell.
func glyph(ce cell) (sgr string, ch rune) {
	top, bottom := ce.top, ce.bottom
	switch {
	case top.on && bottom.on && top.c == bottom.c:
		return Foreground(top.c), BlockFull
	case top.on && bottom.on:
		return Foreground(top.c) + background(bottom.c), BlockUpperHalf
	case top.on:
		return Foreground(top.c), BlockUpperHalf
	case bottom.on:
		return Foreground(bottom.c), BlockLowerHalf
	default:
		return seqReset, ' '
	}
}

// Foreground returns the SGR sequence selecting col as a 24-bit foreground,
// with the background reset.
func Foreground(col color.RGBA) string {
	return "\033[0;38;2;" + rgb(col) + "m"
}

func background(col color.RGBA) string {
	return "\033[48;2;" + rgb(col) + "m"
}

func rgb(col color.RGBA) string {
	return strconv.Itoa(int(col.R)) + ";" + strconv.Itoa(int(col.G)) + ";" + strconv.Itoa(int(col.B))
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	buf.WriteString(seqReset)
	at := func(col, row int, s string) {
		buf.WriteString("\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H" + s)
	}

	switch {
	case hasV && hasH:
		at(left, top, "┌"+line+"┐")
		at(left, bottom, "└"+line+"┘")
	case hasV:
		at(c.offsetCol+1, top, line)
		at(c.offsetCol+1, bottom, line)
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			at(left, row, "│")
			at(right, row, "│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}
