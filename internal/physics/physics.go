// Package physics provides clamping and catch-zone geometry for the play field.
// All coordinates are percentages of the field (0-100 on both axes).
package physics

import "math"

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to the closed range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HorizontalDistance returns the absolute horizontal distance between two positions.
func HorizontalDistance(x1, x2 float64) float64 {
	return math.Abs(x1 - x2)
}

// WithinZone reports whether x lies strictly inside a zone of the given width
// centered on center.
func WithinZone(x, center, width float64) bool {
	return HorizontalDistance(x, center) < width/2
}

// InBand reports whether y lies within the closed band [lo, hi].
func InBand(y, lo, hi float64) bool {
	return y >= lo && y <= hi
}

// FieldPercent converts a position inside [origin, origin+extent) to a
// percentage of extent. A non-positive extent yields 50 (field center).
func FieldPercent(pos, origin, extent float64) float64 {
	if extent <= 0 {
		return 50
	}
	return (pos - origin) / extent * 100
}
