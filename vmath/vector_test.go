package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLen(t *testing.T) {
	v := V2(30, 40)

	got := v.ClampLen(10)
	assert.InDelta(t, 10, got.Len(), 1e-9)
	assert.InDelta(t, 0.6, got.Normalize().X, 1e-9)

	// Never amplified
	assert.Equal(t, v, v.ClampLen(100))
	assert.Equal(t, Vec2{}, Vec2{}.ClampLen(5))
	assert.Equal(t, v, v.ClampLen(math.Inf(1)))
}

func TestRotate(t *testing.T) {
	got := V2(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 1, got.Y, 1e-9)

	assert.Equal(t, V2(3, 4), V2(3, 4).Rotate(0))
}

func TestBoxOf(t *testing.T) {
	bb := BoxOf(V2(10, 20), V2(4, 6))
	assert.Equal(t, BoundingBox{Top: 17, Bottom: 23, Left: 8, Right: 12}, bb)
	assert.True(t, bb.Overlaps(BoxOf(V2(14, 20), V2(4, 4))), "touching edges overlap")
	assert.False(t, bb.Overlaps(BoxOf(V2(15, 20), V2(4, 4))))
}

func TestCornersAndAngle(t *testing.T) {
	bb := BoxOf(V2(0, 0), V2(2, 2))
	assert.Equal(t, V2(-1, -1), bb.TopLeft())
	assert.Equal(t, V2(1, -1), bb.TopRight())
	assert.Equal(t, V2(-1, 1), bb.BottomLeft())
	assert.Equal(t, V2(1, 1), bb.BottomRight())

	assert.InDelta(t, -math.Pi/4, bb.TopRight().Angle(), 1e-9)
	assert.InDelta(t, math.Pi/2, V2(0, 3).Angle(), 1e-9)
}
