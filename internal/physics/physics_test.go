package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsIsSymmetric(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 5, Y: 5, W: 10, H: 10},
		{X: 10, Y: 0, W: 5, H: 5},
		{X: 2, Y: 2, W: 1, H: 1},
		{X: -20, Y: 40, W: 3, H: 100},
		{X: 9.5, Y: 9.5, W: 0.5, H: 0.5},
	}
	for _, a := range rects {
		for _, b := range rects {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "a=%+v b=%+v", a, b)
		}
	}
}

func TestOverlapsSelf(t *testing.T) {
	for _, r := range []Rect{
		{X: 0, Y: 0, W: 1, H: 1},
		{X: -3, Y: 7, W: 0.01, H: 40},
		{X: 400, Y: 300, W: 40, H: 32},
	} {
		assert.True(t, Overlaps(r, r), "%+v", r)
	}
}

func TestOverlapsTouchingEdgesDoNotCollide(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}

	assert.False(t, Overlaps(a, Rect{X: 10, Y: 0, W: 10, H: 10}), "right edge")
	assert.False(t, Overlaps(a, Rect{X: -10, Y: 0, W: 10, H: 10}), "left edge")
	assert.False(t, Overlaps(a, Rect{X: 0, Y: 10, W: 10, H: 10}), "bottom edge")
	assert.False(t, Overlaps(a, Rect{X: 0, Y: -10, W: 10, H: 10}), "top edge")
	assert.False(t, Overlaps(a, Rect{X: 10, Y: 10, W: 1, H: 1}), "corner")
}

func TestOverlapsContainedAndPartial(t *testing.T) {
	outer := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.True(t, Overlaps(outer, Rect{X: 40, Y: 40, W: 5, H: 5}))
	assert.True(t, Overlaps(outer, Rect{X: 99, Y: 99, W: 5, H: 5}))
	assert.False(t, Overlaps(outer, Rect{X: 101, Y: 50, W: 5, H: 5}))
	// Overlap on one axis only.
	assert.False(t, Overlaps(outer, Rect{X: 50, Y: 200, W: 5, H: 5}))
}

func TestCenteredAt(t *testing.T) {
	r := CenteredAt(100, 50, 34, 46)
	x, y := r.Center()

	assert.InDelta(t, 83, r.X, 1e-9)
	assert.InDelta(t, 27, r.Y, 1e-9)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, 117, r.Right(), 1e-9)
	assert.InDelta(t, 73, r.Bottom(), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 10))
	assert.Equal(t, 10.0, Clamp(12, 0, 10))
	assert.Equal(t, 7.5, Clamp(7.5, 0, 10))
}
