package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"apart horizontally", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"apart vertically", NewRect(0, 0, 10, 10), NewRect(0, 15, 10, 10), false},
		{"adjacent edges", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"contained", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxEdges(t *testing.T) {
	b := NewBox(100, 300, 40, 40)

	if b.Left() != 80 || b.Right() != 120 {
		t.Errorf("horizontal edges = (%v, %v), expected (80, 120)", b.Left(), b.Right())
	}
	if b.Top() != 280 || b.Bottom() != 320 {
		t.Errorf("vertical edges = (%v, %v), expected (280, 320)", b.Top(), b.Bottom())
	}
}

func TestBoxOverlapsX(t *testing.T) {
	b := NewBox(100, 0, 40, 40) // spans [80, 120]

	tests := []struct {
		name        string
		left, right float64
		expected    bool
	}{
		{"inside", 90, 110, true},
		{"straddles right edge", 110, 180, true},
		{"touches right edge", 120, 190, false},
		{"touches left edge", 10, 80, false},
		{"far left", -70, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.OverlapsX(tc.left, tc.right); got != tc.expected {
				t.Errorf("OverlapsX(%v, %v) = %v, expected %v", tc.left, tc.right, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{0.3, -0.5, 0.5, 0.3},
		{-0.8, -0.5, 0.5, -0.5},
		{1.2, -0.5, 0.5, 0.5},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}
