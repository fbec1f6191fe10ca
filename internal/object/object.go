// Package object holds the drawable views of a round: donuts, the catcher
// cart, sparkle particles and text.
package object

import (
	"time"

	"github.com/tomz197/gonuts/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas  *draw.Canvas      // High-resolution canvas (2x vertical)
	Writer  *draw.ChunkWriter // Text overlays
	Field   Field             // Maps field percentages to canvas coordinates
	Palette Palette           // Inks registered on Canvas
}

// Field maps round coordinates (percent of the play area) to logical canvas
// coordinates.
type Field struct {
	Width  float64
	Height float64
}

// Point converts a field position in percent to a canvas point.
func (f Field) Point(xPct, yPct float64) draw.Point {
	return draw.Point{X: xPct / 100 * f.Width, Y: yPct / 100 * f.Height}
}

// Span converts a horizontal length in percent to logical units.
func (f Field) Span(pct float64) float64 {
	return pct / 100 * f.Width
}

// Object is a drawable and updatable entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) bool

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if something with remainingTime left should
// be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
