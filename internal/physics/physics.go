// Package physics provides vector math, distance checks and broad-phase lookup.
package physics

import "math"

// Vec is a 2D vector in world units. Y grows downward, so "up" is negative Y.
type Vec struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec{}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean length of v.
func (v Vec) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared returns the squared length of v.
func (v Vec) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns the unit vector in the direction of v, or Zero for a zero vector.
func (v Vec) Normalized() Vec {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Angle returns the angle of v in radians, measured from +X toward +Y.
// With Y pointing down, straight up is -π/2.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// DistanceSquaredTo returns the squared distance between v and o.
func (v Vec) DistanceSquaredTo(o Vec) float64 {
	return DistanceSquared(v.X, v.Y, o.X, o.Y)
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, c Vec, radius float64) bool {
	return p.DistanceSquaredTo(c) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a Vec, ra float64, b Vec, rb float64) bool {
	minDist := ra + rb
	return a.DistanceSquaredTo(b) < minDist*minDist
}

// Rect is an axis-aligned rectangle. Min is the top-left corner.
type Rect struct {
	Min, Max Vec
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clamp returns p moved to the nearest point inside r.
func (r Rect) Clamp(p Vec) Vec {
	return Vec{
		X: math.Min(math.Max(p.X, r.Min.X), r.Max.X),
		Y: math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y),
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of r.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}
