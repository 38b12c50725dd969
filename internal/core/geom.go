// Package core provides the primitive types shared by the simulation and the
// presentation layers: bounding boxes, the cell screen buffer, input frames
// and runtime configuration. It has no external dependencies so that game
// logic stays pure and testable.
package core

// Rect is an integer axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects reports whether two rectangles share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Box is a float axis-aligned bounding box described by its center and
// half extents. The simulation works in continuous field units, so collision
// tests use Box rather than Rect.
type Box struct {
	CX, CY float64 // Center
	HW, HH float64 // Half width, half height
}

// NewBox creates a box centered on (cx, cy) with full size w x h.
func NewBox(cx, cy, w, h float64) Box {
	return Box{CX: cx, CY: cy, HW: w / 2, HH: h / 2}
}

// Left returns the left edge.
func (b Box) Left() float64 { return b.CX - b.HW }

// Right returns the right edge.
func (b Box) Right() float64 { return b.CX + b.HW }

// Top returns the top edge (smaller y).
func (b Box) Top() float64 { return b.CY - b.HH }

// Bottom returns the bottom edge (larger y).
func (b Box) Bottom() float64 { return b.CY + b.HH }

// OverlapsX reports whether the box's horizontal interval strictly overlaps
// [left, right). Touching edges do not overlap.
func (b Box) OverlapsX(left, right float64) bool {
	return b.Right() > left && b.Left() < right
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
