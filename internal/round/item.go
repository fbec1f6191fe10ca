package round

// Category determines an item's points, size and colour.
type Category int

const (
	Common   Category = iota // Pink
	Uncommon                 // Chocolate
	Rare                     // Blue
	Jackpot                  // Golden
)

// Category roll thresholds; a roll at a threshold belongs to the higher tier.
const (
	uncommonRoll = 0.70
	rareRoll     = 0.88
	jackpotRoll  = 0.98
)

// RollCategory maps a uniform draw in [0,1) to a category.
func RollCategory(roll float64) Category {
	switch {
	case roll >= jackpotRoll:
		return Jackpot
	case roll >= rareRoll:
		return Rare
	case roll >= uncommonRoll:
		return Uncommon
	default:
		return Common
	}
}

// Points returns the score awarded for catching an item of this category.
func (c Category) Points() int {
	switch c {
	case Uncommon:
		return 15
	case Rare:
		return 30
	case Jackpot:
		return 100
	default:
		return 10
	}
}

// Size returns the render diameter for the category.
func (c Category) Size() int {
	if c == Jackpot {
		return SizeJackpot
	}
	return SizeRegular
}

func (c Category) String() string {
	switch c {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Jackpot:
		return "jackpot"
	default:
		return "unknown"
	}
}

// Item is a single falling object. X, Size and FallSpeed are fixed at spawn.
type Item struct {
	ID            int
	X, Y          float64
	Size          int
	FallSpeed     float64 // Percentage points per frame
	Category      Category
	Rotation      float64 // Degrees, cosmetic
	RotationSpeed float64 // Degrees per frame, cosmetic
	Caught        bool
}

// Catch records an item captured during a frame.
type Catch struct {
	ItemID   int
	Category Category
	Points   int
	X, Y     float64
}
