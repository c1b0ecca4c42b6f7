package physics

import (
	"math"

	"pongsync/ecs"
	"pongsync/vmath"
	"pongsync/world"
)

// BoxBox checks if two axis-aligned boxes touch or overlap
func BoxBox(m1, m2 *world.Motion) bool {
	return m1.Box().Overlaps(m2.Box())
}

// CircleBox checks a circle (diameter scale.X) against a box. Each axis
// exits early once its excess distance alone exceeds the radius.
func CircleBox(circle, box *world.Motion) bool {
	bb := box.Box()
	c := circle.Position
	r := circle.Scale.X / 2

	minDist := 0.0
	e := math.Max(0, bb.Left-c.X) + math.Max(0, c.X-bb.Right)
	if e > r {
		return false
	}
	minDist += e * e

	e = math.Max(0, bb.Top-c.Y) + math.Max(0, c.Y-bb.Bottom)
	if e > r {
		return false
	}
	minDist += e * e

	return minDist <= r*r
}

// CircleCircle checks if two circles overlap
func CircleCircle(m1, m2 *world.Motion) bool {
	r1 := m1.Scale.X / 2
	r2 := m2.Scale.X / 2
	return vmath.Distance(m1.Position, m2.Position) <= r1+r2
}

// Overlaps dispatches to the pairwise test for the two shapes
func Overlaps(s1 world.Shape, m1 *world.Motion, s2 world.Shape, m2 *world.Motion) bool {
	switch s1 {
	case world.ShapeRectangle:
		switch s2 {
		case world.ShapeRectangle:
			return BoxBox(m1, m2)
		case world.ShapeCircle:
			return CircleBox(m2, m1)
		default:
			return BoxBox(m1, m2)
		}
	case world.ShapeCircle:
		switch s2 {
		case world.ShapeRectangle:
			return CircleBox(m1, m2)
		case world.ShapeCircle:
			return CircleCircle(m1, m2)
		default:
			return CircleBox(m1, m2)
		}
	default:
		return BoxBox(m1, m2)
	}
}

// Detect tests every unordered pair of collidable Motions and records two
// Collision components per contact, one from each side. It returns the
// number of contacts.
func Detect(reg *world.Registry) int {
	motions := reg.Motions
	n := motions.Len()
	hits := 0

	for i := 0; i < n; i++ {
		e1, m1 := motions.At(i)
		if reg.NonCollidables.Has(e1) {
			continue
		}
		s1 := world.ShapeOf(reg, e1)

		for j := i + 1; j < n; j++ {
			e2, m2 := motions.At(j)
			if reg.NonCollidables.Has(e2) {
				continue
			}
			if !Overlaps(s1, m1, world.ShapeOf(reg, e2), m2) {
				continue
			}
			record(reg, e1, e2)
			record(reg, e2, e1)
			hits++
		}
	}
	return hits
}

func record(reg *world.Registry, e, other ecs.Entity) {
	// fresh entity, cannot collide
	_, _ = reg.Collisions.Insert(reg.NewEntity(), &world.Collision{Entity: e, Other: other}, false)
}
