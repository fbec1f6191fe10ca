package draw

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Ink is an index into the canvas palette. NoInk marks an empty pixel.
type Ink uint8

// NoInk is the empty pixel.
const NoInk Ink = 0

// cell packs the top and bottom inks of one terminal cell.
type cell uint16

// unknownCell marks a cell whose terminal contents are not known
// (e.g. text was written over it) and must be repainted.
const unknownCell cell = 0xFFFF

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
// Each pixel carries an Ink; inks map to colours for the canvas' termenv profile.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []Ink  // Flat slice: [y * termWidth + x]
	shown          []cell // What the terminal currently shows, per cell

	ink        Ink             // Pen used by drawing calls
	profile    termenv.Profile // Colour capability of the target terminal
	palette    []termenv.Color // palette[i-1] is the colour of Ink i
	paletteHex []string

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	scaledBuf       []Point         // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
	polygonBuf      []Point         // Reusable buffer for polygon point generation
}

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels).
// No scaling is applied (1:1 mapping).
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pixels:         make([]Ink, subPixelHeight*termWidth),
		shown:          make([]cell, termHeight*termWidth),
		ink:            1,
		profile:        termenv.Ascii,
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]Ink, subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// SetProfile sets the colour profile used when rendering inks.
// termenv.Ascii renders plain blocks.
func (c *Canvas) SetProfile(p termenv.Profile) {
	c.profile = p
	for i, hex := range c.paletteHex {
		c.palette[i] = p.Color(hex)
	}
}

// AddInk registers a colour (hex, e.g. "#FF69B4") and returns its Ink.
// Registering the same colour twice returns the existing Ink.
func (c *Canvas) AddInk(hex string) Ink {
	for i, h := range c.paletteHex {
		if h == hex {
			return Ink(i + 1)
		}
	}
	if len(c.paletteHex) == math.MaxUint8 {
		return c.ink
	}
	c.paletteHex = append(c.paletteHex, hex)
	c.palette = append(c.palette, c.profile.Color(hex))
	return Ink(len(c.paletteHex))
}

// SetInk selects the pen used by subsequent drawing calls.
func (c *Canvas) SetInk(i Ink) {
	if i == NoInk {
		i = 1
	}
	c.ink = i
}

// ForceRedraw tells the canvas the terminal was cleared, so the next Render
// repaints every non-empty cell.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based canvas position (col, row). Those cells are repainted on the
// next Render even if the canvas did not change there.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.shown[y*c.termWidth+x] = unknownCell
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = c.ink
	}
}

// At returns the ink of the pixel at actual terminal pixel coordinates.
func (c *Canvas) At(x, y int) Ink {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return NoInk
}

// toPixel maps a logical point to the nearest sub-pixel.
func (c *Canvas) toPixel(p Point) (x, y int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// Plot sets the pixel under a logical point.
func (c *Canvas) Plot(p Point) {
	c.setPixel(c.toPixel(p))
}

// DrawLine draws a Bresenham line between two logical points.
func (c *Canvas) DrawLine(from, to Point) {
	x, y := c.toPixel(from)
	x2, y2 := c.toPixel(to)

	dx, dy := abs(x2-x), -abs(y2-y)
	sx, sy := 1, 1
	if x > x2 {
		sx = -1
	}
	if y > y2 {
		sy = -1
	}

	for e := dx + dy; ; {
		c.setPixel(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points)
	}

	// Draw outline
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point) {
	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	// Scale points to pixel coordinates
	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	// Find bounding box in pixel space
	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	// Scanline fill in pixel space
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		// Reuse intersection buffer
		intersections := c.intersectionBuf[:0]

		// Find intersections with all edges
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// DrawRing draws a ring centred on a logical point. Radii are in logical
// horizontal units and are scaled so the ring stays round on screen
// (a half-block sub-pixel is roughly square). inner <= 0 gives a disc.
func (c *Canvas) DrawRing(center Point, outer, inner float64) {
	if outer <= 0 {
		return
	}
	cx := center.X * c.scaleX
	cy := center.Y * c.scaleY
	ro := outer * c.scaleX
	ri := inner * c.scaleX
	if ro < 0.5 {
		c.setPixel(int(math.Round(cx)), int(math.Round(cy)))
		return
	}

	for y := int(math.Floor(cy - ro)); y <= int(math.Ceil(cy+ro)); y++ {
		for x := int(math.Floor(cx - ro)); x <= int(math.Ceil(cx+ro)); x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d <= ro && d >= ri {
				c.setPixel(x, y)
			}
		}
	}
}

// Render outputs the canvas to the writer using half-block characters.
// Only cells that differ from what the terminal shows are written; cells that
// became empty are blanked.
func (c *Canvas) Render(w io.Writer) {
	// Reset and pre-grow buffer for better performance
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 12) // Estimate ~12 bytes per cell

	for row := 0; row < c.termHeight; row++ {
		topY := row * 2
		bottomY := row*2 + 1
		topOffset := topY * c.termWidth
		bottomOffset := bottomY * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := NoInk
			if bottomY < c.subPixelHeight {
				bottom = c.pixels[bottomOffset+col]
			}

			idx := row*c.termWidth + col
			key := cell(top)<<8 | cell(bottom)
			if c.shown[idx] == key {
				continue
			}
			c.shown[idx] = key

			var ch rune
			var fg, bg Ink
			switch {
			case top != NoInk && (top == bottom || (bottom != NoInk && c.profile == termenv.Ascii)):
				ch, fg = BlockFull, top
			case top != NoInk:
				ch, fg, bg = BlockUpperHalf, top, bottom
			case bottom != NoInk:
				ch, fg = BlockLowerHalf, bottom
			default:
				c.moveTo(col, row)
				c.renderBuf.WriteByte(' ')
				continue
			}

			c.moveTo(col, row)
			if style := c.sgr(fg, bg); style != "" {
				fmt.Fprintf(&c.renderBuf, "%s%sm%c%s%sm", termenv.CSI, style, ch, termenv.CSI, termenv.ResetSeq)
			} else {
				c.renderBuf.WriteRune(ch)
			}
		}
	}

	io.WriteString(w, c.renderBuf.String())
}

// moveTo positions the cursor on a 0-based canvas cell.
func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString(termenv.CSI)
	fmt.Fprintf(&c.renderBuf, termenv.CursorPositionSeq, row+1+c.offsetRow, col+1+c.offsetCol)
}

// sgr returns the SGR parameters for a foreground/background ink pair,
// or "" when the profile has no colour.
func (c *Canvas) sgr(fg, bg Ink) string {
	if c.profile == termenv.Ascii {
		return ""
	}
	var parts []string
	if seq := c.colorSeq(fg, false); seq != "" {
		parts = append(parts, seq)
	}
	if seq := c.colorSeq(bg, true); seq != "" {
		parts = append(parts, seq)
	}
	return strings.Join(parts, ";")
}

func (c *Canvas) colorSeq(i Ink, background bool) string {
	if i == NoInk || int(i) > len(c.palette) || c.palette[i-1] == nil {
		return ""
	}
	return c.palette[i-1].Sequence(background)
}

// RenderBorder frames the canvas with b when the terminal exceeds the max
// render resolution. Sides are drawn only where there is room for them and
// corners only when both axes are offset. ink colours the frame.
func (c *Canvas) RenderBorder(w io.Writer, b lipgloss.Border, ink Ink) {
	sides := c.offsetCol >= 1
	rules := c.offsetRow >= 1
	if !sides && !rules {
		return
	}

	left, right := c.offsetCol, c.offsetCol+c.termWidth+1
	top, bottom := c.offsetRow, c.offsetRow+c.termHeight+1

	var buf strings.Builder
	at := func(row, col int, s string) {
		buf.WriteString(termenv.CSI)
		fmt.Fprintf(&buf, termenv.CursorPositionSeq, row, col)
		buf.WriteString(s)
	}

	reset := ""
	if style := c.sgr(ink, NoInk); style != "" {
		buf.WriteString(termenv.CSI + style + "m")
		reset = termenv.CSI + termenv.ResetSeq + "m"
	}

	if rules {
		topRule := strings.Repeat(b.Top, c.termWidth)
		bottomRule := strings.Repeat(b.Bottom, c.termWidth)
		if sides {
			at(top, left, b.TopLeft+topRule+b.TopRight)
			at(bottom, left, b.BottomLeft+bottomRule+b.BottomRight)
		} else {
			at(top, left+1, topRule)
			at(bottom, left+1, bottomRule)
		}
	}

	if sides {
		for row := top + 1; row < bottom; row++ {
			at(row, left, b.Left)
			at(row, right, b.Right)
		}
	}

	buf.WriteString(reset)
	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// This avoids per-frame allocations for polygon rendering.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
