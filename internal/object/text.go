package object

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/gonuts/internal/draw"
)

// Text is a simple drawable text object.
// Coordinates are 1-based terminal positions.
type Text struct {
	X     int
	Y     int
	Value string
	Style *lipgloss.Style // Optional
}

// Draw queues the text at its position on w. Positions left of or above the
// render area are pulled in to column or row 1.
func (t Text) Draw(w *draw.ChunkWriter) {
	if t.Value == "" {
		return
	}
	w.WriteAt(max(t.X, 1), max(t.Y, 1), t.Render())
}

// Render returns the styled value without positioning.
func (t Text) Render() string {
	if t.Style == nil {
		return t.Value
	}
	return t.Style.Render(t.Value)
}

// Width returns the number of terminal cells the text occupies.
func (t Text) Width() int {
	return lipgloss.Width(t.Value)
}

// Centered returns text centred on column centerX.
func Centered(centerX, y int, value string, style *lipgloss.Style) Text {
	t := Text{Y: y, Value: value, Style: style}
	t.X = centerX - t.Width()/2
	return t
}
