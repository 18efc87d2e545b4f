package draw

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Control sequences.
const (
	seqReset      = "\033[0m"
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize keeps single writes under a typical 1500 byte MTU so frames
// stream smoothly over SSH.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and sends it in
// MTU-sized writes on Flush. Cursor positions are shifted by the offset of
// the centered render area.
type ChunkWriter struct {
	frame   bytes.Buffer
	out     *bufio.Writer
	numBuf  [20]byte
	offCol  int
	offRow  int
	written int64
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter on w with the given cursor offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor positions the cursor at the 1-based render-area cell (col, row).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
}

// Write appends raw output. Canvas.Render writes absolute positions here.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString appends raw output.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// WriteStyled writes text at (col, row) in the given SGR style and resets
// the style afterwards.
func (cw *ChunkWriter) WriteStyled(col, row int, sgr, text string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(sgr)
	cw.frame.WriteString(text)
	cw.frame.WriteString(seqReset)
}

// ResetScreen queues a style reset and a full clear.
func (cw *ChunkWriter) ResetScreen() {
	cw.frame.WriteString(seqReset + seqClear)
}

// Pending returns the number of bytes queued for the next Flush.
func (cw *ChunkWriter) Pending() int {
	return cw.frame.Len()
}

// Written returns the number of bytes flushed so far.
func (cw *ChunkWriter) Written() int64 {
	return cw.written
}

// Flush sends the queued frame in chunks of at most maxChunkSize bytes.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	for data := cw.frame.Bytes(); len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			return err
		}
		if err := cw.out.Flush(); err != nil {
			return err
		}
		cw.written += int64(n)
		data = data[n:]
	}
	return nil
}

// TermSizeFunc returns the terminal size in columns and rows.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClampTermSize caps the render area at maxWidth×maxHeight and returns the
// offset that centers it. A non-positive max means no limit.
func ClampTermSize(termWidth, termHeight, maxWidth, maxHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth, renderHeight = termWidth, termHeight
	if maxWidth > 0 {
		renderWidth = min(renderWidth, maxWidth)
	}
	if maxHeight > 0 {
		renderHeight = min(renderHeight, maxHeight)
	}
	return renderWidth, renderHeight, (termWidth - renderWidth) / 2, (termHeight - renderHeight) / 2
}

// ClearScreen resets colors, clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqReset+seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqShowCursor)
}
