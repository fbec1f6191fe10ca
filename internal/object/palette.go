package object

import (
	"github.com/tomz197/gonuts/internal/draw"
	"github.com/tomz197/gonuts/internal/round"
)

// Category colours as hex strings; shared with the text overlays.
const (
	ColorCommon   = "#FF69B4" // Pink frosting
	ColorUncommon = "#D2691E" // Chocolate
	ColorRare     = "#1E90FF" // Blue
	ColorJackpot  = "#FFD700" // Gold
	ColorDough    = "#F4C27A"
	ColorSprinkle = "#FFFFFF"
	ColorCart     = "#B0B0B0"
	ColorSparkle  = "#FFF5B0"
)

// CategoryColor returns the frosting colour of a category.
func CategoryColor(c round.Category) string {
	switch c {
	case round.Uncommon:
		return ColorUncommon
	case round.Rare:
		return ColorRare
	case round.Jackpot:
		return ColorJackpot
	default:
		return ColorCommon
	}
}

// Palette holds the inks a canvas needs to draw a round.
type Palette struct {
	Frosting [4]draw.Ink // Indexed by round.Category
	Dough    draw.Ink
	Sprinkle draw.Ink
	Cart     draw.Ink
	Sparkle  draw.Ink
}

// NewPalette registers the round colours on c.
func NewPalette(c *draw.Canvas) Palette {
	var p Palette
	for _, cat := range []round.Category{round.Common, round.Uncommon, round.Rare, round.Jackpot} {
		p.Frosting[cat] = c.AddInk(CategoryColor(cat))
	}
	p.Dough = c.AddInk(ColorDough)
	p.Sprinkle = c.AddInk(ColorSprinkle)
	p.Cart = c.AddInk(ColorCart)
	p.Sparkle = c.AddInk(ColorSparkle)
	return p
}

// FrostingFor returns the frosting ink of a category.
func (p Palette) FrostingFor(c round.Category) draw.Ink {
	if c < 0 || int(c) >= len(p.Frosting) {
		return p.Frosting[round.Common]
	}
	return p.Frosting[c]
}
