package vmath

// BoundingBox is an axis-aligned box. Top is the smaller y.
type BoundingBox struct {
	Top, Bottom, Left, Right float64
}

// BoxOf returns the box centred on pos with the given extents
func BoxOf(pos, scale Vec2) BoundingBox {
	return BoundingBox{
		Top:    pos.Y - scale.Y/2,
		Bottom: pos.Y + scale.Y/2,
		Left:   pos.X - scale.X/2,
		Right:  pos.X + scale.X/2,
	}
}

// Overlaps reports whether two boxes touch or overlap
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.Left <= o.Right &&
		o.Left <= b.Right &&
		b.Top <= o.Bottom &&
		o.Top <= b.Bottom
}

// TopLeft returns the top-left corner
func (b BoundingBox) TopLeft() Vec2 { return Vec2{b.Left, b.Top} }

// TopRight returns the top-right corner
func (b BoundingBox) TopRight() Vec2 { return Vec2{b.Right, b.Top} }

// BottomLeft returns the bottom-left corner
func (b BoundingBox) BottomLeft() Vec2 { return Vec2{b.Left, b.Bottom} }

// BottomRight returns the bottom-right corner
func (b BoundingBox) BottomRight() Vec2 { return Vec2{b.Right, b.Bottom} }
