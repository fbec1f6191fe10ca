// Package draw renders to ANSI terminals: a half-block canvas for shapes and
// a chunked writer for text overlays.
package draw

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// clearSeq homes the cursor and erases the display.
var clearSeq = termenv.CSI + "H" + fmt.Sprintf(termenv.CSI+termenv.EraseDisplaySeq, 2)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, clearSeq)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, termenv.CSI+termenv.HideCursorSeq)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, termenv.CSI+termenv.ShowCursorSeq)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
