// Package geom defines the planar primitives shared by the floor-plan
// kernel: points, rings, polygons with holes and the measurements on them.
//
// All kernel math happens in the horizontal plane. Elevation travels
// alongside a ring in the callers and never enters these functions.
package geom

import "math"

// Epsilon is the tolerance used for coincidence and parallelism tests.
const Epsilon = 1e-9

// Point2 is a point (or vector) in the horizontal plane.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point2{X: x, Y: y}.
func Pt(x, y float64) Point2 {
	return Point2{X: x, Y: y}
}

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 {
	return Point2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 {
	return Point2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p * s.
func (p Point2) Scale(s float64) Point2 {
	return Point2{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product p·q.
func (p Point2) Dot(q Point2) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product p×q.
func (p Point2) Cross(q Point2) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Len returns the Euclidean length of p.
func (p Point2) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns p scaled to unit length, or the zero vector if p is
// (numerically) zero.
func (p Point2) Normalize() Point2 {
	l := p.Len()
	if l < Epsilon {
		return Point2{}
	}
	return Point2{X: p.X / l, Y: p.Y / l}
}

// Perp returns p rotated 90 degrees counter-clockwise.
func (p Point2) Perp() Point2 {
	return Point2{X: -p.Y, Y: p.X}
}

// Equal reports whether p and q coincide within tol on both axes.
func (p Point2) Equal(q Point2, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point2) float64 {
	return b.Sub(a).Len()
}

// DistanceSq returns the squared Euclidean distance between a and b.
func DistanceSq(a, b Point2) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// Orient returns the signed area of the parallelogram (b-a)×(c-a):
// positive when a, b, c turn counter-clockwise, negative when clockwise
// and zero when collinear.
func Orient(a, b, c Point2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Lerp interpolates between a and b.
func Lerp(a, b Point2, t float64) Point2 {
	return Point2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
