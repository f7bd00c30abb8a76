// Package core provides the small shared vocabulary of the arena: geometry
// helpers, input intents, the injectable random source and the terminal cell
// buffer. It has no dependencies on the simulation or on any transport.
package core

import "math"

// Box is an axis-aligned bounding box described by its anchor point and
// half extents. Entities in the arena are anchored at their center.
type Box struct {
	X, Y         float64
	HalfW, HalfH float64
}

// NewBox creates a box anchored at (x, y) with full width w and height h.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, HalfW: w / 2, HalfH: h / 2}
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (b Box) Overlaps(other Box) bool {
	return math.Abs(b.X-other.X) < b.HalfW+other.HalfW &&
		math.Abs(b.Y-other.Y) < b.HalfH+other.HalfH
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
