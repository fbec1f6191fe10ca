package draw

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// maxChunkSize is the most Flush hands the underlying writer at once. One
// frame stays close to a single TCP segment over SSH.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and sends it on Flush in
// MTU-sized pieces. Positions passed to MoveCursor and WriteAt are 1-based
// canvas coordinates; the offset of a centred render area is added for you.
type ChunkWriter struct {
	w       io.Writer
	buf     bytes.Buffer
	offCol  int
	offRow  int
	written int64
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{w: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor queues a cursor move.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString(termenv.CSI)
	fmt.Fprintf(&cw.buf, termenv.CursorPositionSeq, row+cw.offRow, col+cw.offCol)
}

// Write implements io.Writer for use with Canvas.Render and other writers.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString queues s as is.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt queues s at a canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// ClearScreen queues a full terminal clear. The offset does not apply.
func (cw *ChunkWriter) ClearScreen() {
	cw.buf.WriteString(clearSeq)
}

// Written returns the number of bytes flushed so far.
func (cw *ChunkWriter) Written() int64 {
	return cw.written
}

// Flush sends the queued frame and empties the buffer. Stops at the first
// write error.
func (cw *ChunkWriter) Flush() error {
	defer cw.buf.Reset()
	for cw.buf.Len() > 0 {
		n, err := cw.w.Write(cw.buf.Next(maxChunkSize))
		cw.written += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns actual terminal dimensions using the provided size function.
// A nil function falls back to DefaultTermSizeFunc.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	return sizeFunc()
}

// FixedTermSize returns a TermSizeFunc that always reports width x height.
func FixedTermSize(width, height int) TermSizeFunc {
	return func() (int, int, error) {
		return width, height, nil
	}
}
