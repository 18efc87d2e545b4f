package render

import (
	"fmt"
	"image"
	"io"
	"unicode/utf8"

	"github.com/tomz197/spacedefenders/internal/draw"
	"github.com/tomz197/spacedefenders/internal/object"
)

// Logical units per terminal cell. A cell holds two square pixels.
const (
	UnitsPerColumn = 10
	UnitsPerRow    = 20
)

const sgrBold = "\033[1m"

type textSpan struct {
	col, row int
	text     string
	font     Font
}

// TerminalSurface draws on a terminal through a half-block canvas. Text is
// written over the canvas as terminal characters.
type TerminalSurface struct {
	canvas   *draw.Canvas
	writer   *draw.ChunkWriter
	sizeFunc draw.TermSizeFunc
	maxCols  int
	maxRows  int

	termCols, termRows int // Last seen terminal size
	texts              []textSpan
}

var _ Surface = (*TerminalSurface)(nil)

// NewTerminalSurface creates a surface on w sized by sizeFunc. maxCols and
// maxRows cap the render area; non-positive means no cap. It fails if the
// terminal size is unavailable.
func NewTerminalSurface(w io.Writer, sizeFunc draw.TermSizeFunc, maxCols, maxRows int) (*TerminalSurface, error) {
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}
	cols, rows, err := sizeFunc()
	if err != nil {
		return nil, fmt.Errorf("terminal size: %w", err)
	}

	s := &TerminalSurface{
		canvas:   draw.NewScaledCanvas(0, 0, 0, 0),
		writer:   draw.NewChunkWriter(w, 0, 0),
		sizeFunc: sizeFunc,
		maxCols:  maxCols,
		maxRows:  maxRows,
	}
	s.resize(cols, rows)
	return s, nil
}

// Refresh picks up a terminal resize. A size error keeps the previous size.
func (s *TerminalSurface) Refresh() {
	cols, rows, err := s.sizeFunc()
	if err != nil || (cols == s.termCols && rows == s.termRows) {
		return
	}
	s.resize(cols, rows)
}

func (s *TerminalSurface) resize(cols, rows int) {
	s.termCols, s.termRows = cols, rows
	renderCols, renderRows, offsetCol, offsetRow := draw.ClampTermSize(cols, rows, s.maxCols, s.maxRows)
	renderCols, renderRows = max(renderCols, 0), max(renderRows, 0)

	s.canvas.Resize(renderCols, renderRows,
		float64(renderCols*UnitsPerColumn), float64(renderRows*UnitsPerRow))
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.canvas.ForceRedraw()
	s.writer.SetOffset(offsetCol, offsetRow)

	// Remove residual pixels outside the new render area.
	s.writer.ResetScreen()
}

// Size returns the logical size of the render area.
func (s *TerminalSurface) Size() (w, h float64) {
	return s.canvas.LogicalWidth(), s.canvas.LogicalHeight()
}

// Clear erases the canvas and drops queued text.
func (s *TerminalSurface) Clear() {
	s.canvas.Clear()
	s.texts = s.texts[:0]
}

// DrawImage draws img scaled into r.
func (s *TerminalSurface) DrawImage(img image.Image, r object.Rect) {
	s.canvas.DrawImage(img, r.Left, r.Top, r.Width(), r.Height())
}

// FillRect paints or erases r.
func (s *TerminalSurface) FillRect(r object.Rect, f Fill) {
	if f.Erase {
		s.canvas.EraseRect(r.Left, r.Top, r.Width(), r.Height())
		return
	}
	s.canvas.FillRect(r.Left, r.Top, r.Width(), r.Height(), f.Color)
}

// DrawText queues text with its baseline row at y. Text is clipped to the
// render area.
func (s *TerminalSurface) DrawText(text string, x, y float64, align Align, font Font) {
	col, row := s.canvas.LogicalToTerminal(x, y)
	n := utf8.RuneCountInString(text)
	switch align {
	case AlignCenter:
		col -= n / 2
	case AlignRight:
		col -= n
	}

	width := s.canvas.TerminalWidth()
	if row < 1 || row > s.canvas.TerminalHeight() || n == 0 {
		return
	}
	runes := []rune(text)
	if col < 1 {
		if 1-col >= len(runes) {
			return
		}
		runes = runes[1-col:]
		col = 1
	}
	if over := col + len(runes) - 1 - width; over > 0 {
		if over >= len(runes) {
			return
		}
		runes = runes[:len(runes)-over]
	}
	s.texts = append(s.texts, textSpan{col: col, row: row, text: string(runes), font: font})
}

// Present writes the frame to the terminal.
func (s *TerminalSurface) Present() error {
	s.canvas.Render(s.writer)
	s.canvas.RenderBorder(s.writer)

	for _, t := range s.texts {
		s.writer.WriteStyled(t.col, t.row, textStyle(t.font), t.text)
		s.canvas.Touch(t.col, t.row, utf8.RuneCountInString(t.text))
	}
	return s.writer.Flush()
}

// BytesWritten returns the total output sent to the terminal.
func (s *TerminalSurface) BytesWritten() int64 {
	return s.writer.Written()
}

func textStyle(f Font) string {
	switch f {
	case FontTitle:
		return draw.Foreground(ColorYellow) + sgrBold
	case FontAlert:
		return draw.Foreground(ColorRed) + sgrBold
	default:
		return draw.Foreground(ColorWhite)
	}
}
