// Package physics provides axis-aligned rectangle geometry and overlap tests.
package physics

// Rect is an axis-aligned rectangle in screen space.
// X, Y is the top-left corner; W and H are expected to be positive.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// CenteredAt returns a rectangle of size w x h centered on (x, y).
func CenteredAt(x, y, w, h float64) Rect {
	return Rect{X: x - w/2, Y: y - h/2, W: w, H: h}
}

// Overlaps reports whether the projections of a and b overlap on both axes.
// Comparisons are strict: rectangles that only share an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
