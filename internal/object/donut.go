package object

import (
	"math"

	"github.com/tomz197/gonuts/internal/draw"
	"github.com/tomz197/gonuts/internal/round"
)

// DonutRadius is the outer radius, in percent of field width, of a
// regular-sized donut. Larger items scale proportionally.
const DonutRadius = 3.5

// Donut draws a falling item as a frosted ring with rotating sprinkles.
type Donut struct {
	Item round.Item
}

// Radius returns the donut's outer radius in percent of field width.
func (d Donut) Radius() float64 {
	size := d.Item.Size
	if size <= 0 {
		size = round.SizeRegular
	}
	return DonutRadius * float64(size) / round.SizeRegular
}

// Update is a no-op; items move in the round engine.
func (d Donut) Update(ctx UpdateContext) bool {
	return false
}

// Draw renders the donut. Caught donuts are in the cart and not drawn.
func (d Donut) Draw(ctx DrawContext) error {
	if d.Item.Caught {
		return nil
	}
	c := ctx.Canvas
	center := ctx.Field.Point(d.Item.X, d.Item.Y)
	r := ctx.Field.Span(d.Radius())

	c.SetInk(ctx.Palette.Dough)
	c.DrawRing(center, r, r*0.4)
	c.SetInk(ctx.Palette.FrostingFor(d.Item.Category))
	c.DrawRing(center, r*0.85, r*0.45)

	c.SetInk(ctx.Palette.Sprinkle)
	for k := 0; k < 4; k++ {
		angle := (d.Item.Rotation + float64(k)*90) * math.Pi / 180
		c.Plot(draw.Point{X: center.X + math.Cos(angle)*r*0.65, Y: center.Y + math.Sin(angle)*r*0.65})
	}
	return nil
}

// Cart draws the catcher centred on X (percent of field width).
type Cart struct {
	X float64
}

// Update is a no-op; the catcher moves in the round engine.
func (c Cart) Update(ctx UpdateContext) bool {
	return false
}

// Draw renders the cart as a basket spanning the catch zone.
func (c Cart) Draw(ctx DrawContext) error {
	half := round.CatchZoneWidth / 2
	top := float64(round.CatchBandTop + 2)
	bottom := float64(round.CatchBandBottom + 4)

	points := ctx.Canvas.BorrowPoints(4)
	points[0] = ctx.Field.Point(c.X-half, top)
	points[1] = ctx.Field.Point(c.X+half, top)
	points[2] = ctx.Field.Point(c.X+half*0.7, bottom)
	points[3] = ctx.Field.Point(c.X-half*0.7, bottom)

	ctx.Canvas.SetInk(ctx.Palette.Cart)
	ctx.Canvas.DrawPolygon(points, true)

	// Wheels
	ctx.Canvas.SetInk(ctx.Palette.Dough)
	wheel := ctx.Field.Span(1.2)
	ctx.Canvas.DrawRing(ctx.Field.Point(c.X-half*0.5, bottom+1.5), wheel, 0)
	ctx.Canvas.DrawRing(ctx.Field.Point(c.X+half*0.5, bottom+1.5), wheel, 0)
	return nil
}

// Compile-time check that the views implement Object.
var (
	_ Object = Donut{}
	_ Object = Cart{}
)
