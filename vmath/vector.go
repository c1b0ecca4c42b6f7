package vmath

import "math"

// Vec2 is a 2-D vector. Screen space: x grows right, y grows down.
type Vec2 struct {
	X float64 `yaml:"x" msgpack:"x"`
	Y float64 `yaml:"y" msgpack:"y"`
}

// V2 builds a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// LenSq returns the squared magnitude
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the magnitude
func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// IsZero reports whether both components are exactly zero
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector of v, or the zero vector when v is zero
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ClampLen caps the magnitude of v at max, keeping its direction.
// A shorter vector is returned unchanged; it is never amplified.
func (v Vec2) ClampLen(max float64) Vec2 {
	l := v.Len()
	if l == 0 || l <= max {
		return v
	}
	return v.Normalize().Scale(max)
}

// Rotate rotates v around the origin by rad radians
func (v Vec2) Rotate(rad float64) Vec2 {
	if rad == 0 {
		return v
	}
	s, c := math.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Angle returns atan2(y, x)
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Distance returns the distance between two points
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}
