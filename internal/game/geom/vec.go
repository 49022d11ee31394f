// Package geom provides the small vector-math toolkit used by the combat
// simulation: positions, facing directions, cone and rear-arc tests.
package geom

import "math"

// Vec3 is a position or direction in world space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Length()
}

// DistanceToSegment returns the shortest distance from v to the segment
// between a and b. A degenerate segment (a == b) measures to the point.
func (v Vec3) DistanceToSegment(a, b Vec3) float64 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return v.DistanceTo(a)
	}
	t := v.Sub(a).Dot(ab) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return v.DistanceTo(a.Add(ab.Scale(t)))
}

// Normalized returns v scaled to unit length, or the zero vector if v has
// zero length.
//
// Postcondition: the result has length 1 or is the zero vector.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat returns v with its vertical component zeroed. Cone and arc tests
// operate on the horizontal plane.
func (v Vec3) Flat() Vec3 {
	return Vec3{v.X, 0, v.Z}
}
