package geom

import "math"

// Ring is a closed polygon boundary. The last point connects back to the
// first; the closing point is never stored. Orientation is derived from
// the sign of SignedArea.
type Ring []Point2

// PolygonWithHoles is an outer ring plus zero or more hole rings. The
// windings of the rings are independent of each other.
type PolygonWithHoles struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// Valid reports whether r has at least three points.
func (r Ring) Valid() bool {
	return len(r) >= 3
}

// Edge returns the i-th edge (r[i], r[i+1]) with wrap-around.
func (r Ring) Edge(i int) (Point2, Point2) {
	return r[i], r[(i+1)%len(r)]
}

// SignedArea returns the shoelace area of r: positive for counter-clockwise
// rings, negative for clockwise rings, zero for fewer than three points.
func SignedArea(r Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	var a float64
	for i := range r {
		p, q := r.Edge(i)
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Area returns |SignedArea(r)|.
func Area(r Ring) float64 {
	return math.Abs(SignedArea(r))
}

// IsClockwise reports whether r winds clockwise.
func IsClockwise(r Ring) bool {
	return SignedArea(r) < 0
}

// Reversed returns a copy of r with the opposite winding.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// CCW returns r wound counter-clockwise, copying only when it must reverse.
func (r Ring) CCW() Ring {
	if IsClockwise(r) {
		return r.Reversed()
	}
	return r
}

// CW returns r wound clockwise, copying only when it must reverse.
func (r Ring) CW() Ring {
	if SignedArea(r) > 0 {
		return r.Reversed()
	}
	return r
}

// Clone returns a copy of r.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Centroid returns the area-weighted centroid of r. Degenerate rings
// (area within Epsilon of zero) fall back to the arithmetic mean of the
// points. An empty ring yields the origin.
func Centroid(r Ring) Point2 {
	if len(r) == 0 {
		return Point2{}
	}
	var cx, cy, a float64
	for i := range r {
		p, q := r.Edge(i)
		f := p.X*q.Y - q.X*p.Y
		a += f
		cx += (p.X + q.X) * f
		cy += (p.Y + q.Y) * f
	}
	a /= 2
	if math.Abs(a) < Epsilon {
		var mean Point2
		for _, p := range r {
			mean = mean.Add(p)
		}
		return mean.Scale(1 / float64(len(r)))
	}
	return Point2{X: cx / (6 * a), Y: cy / (6 * a)}
}

// PointInPolygon reports whether p lies inside r using the even-odd rule
// with a horizontal ray. Points exactly on the boundary may go either way.
func PointInPolygon(p Point2, r Ring) bool {
	inside := false
	j := len(r) - 1
	for i := range r {
		a, b := r[i], r[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// LineIntersect intersects the infinite line through p1,p2 with the one
// through p3,p4. ok is false when the direction cross product is within
// Epsilon of zero (parallel or coincident lines).
func LineIntersect(p1, p2, p3, p4 Point2) (pt Point2, ok bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	den := d1.Cross(d2)
	if math.Abs(den) < Epsilon {
		return Point2{}, false
	}
	t := p3.Sub(p1).Cross(d2) / den
	return p1.Add(d1.Scale(t)), true
}

// ThickSegmentPolygon returns the rectangle around segment a→b whose long
// edges are offset by ±thickness/2 along the perpendicular, wound
// counter-clockwise. A zero-length segment yields nil.
func ThickSegmentPolygon(a, b Point2, thickness float64) Ring {
	dir := b.Sub(a).Normalize()
	if dir == (Point2{}) {
		return nil
	}
	n := dir.Perp().Scale(thickness / 2)
	r := Ring{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)}
	return r.CCW()
}

// Clean returns points as a valid Ring: a trailing point equal to the first
// is dropped, then consecutive duplicates within Epsilon (including the
// wrap-around pair) are collapsed. ok is false when fewer than three
// distinct points remain.
func Clean(points []Point2) (Ring, bool) {
	out := make(Ring, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Equal(p, Epsilon) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0], Epsilon) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil, false
	}
	return out, true
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	Min, Max Point2
}

// EmptyBounds returns bounds that contain nothing; Extend grows it.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Point2{X: inf, Y: inf}, Max: Point2{X: -inf, Y: -inf}}
}

// IsEmpty reports whether b contains no point.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend grows b to include p.
func (b Bounds) Extend(p Point2) Bounds {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// Width returns the x extent of b.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the y extent of b.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Pad grows b by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{
		Min: Point2{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: Point2{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Ring returns the corners of b as a counter-clockwise ring.
func (b Bounds) Ring() Ring {
	return Ring{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// RingBounds returns the bounds of all points in rings.
func RingBounds(rings ...Ring) Bounds {
	b := EmptyBounds()
	for _, r := range rings {
		for _, p := range r {
			b = b.Extend(p)
		}
	}
	return b
}

// Area returns |outer| minus the areas of the holes.
func (p PolygonWithHoles) Area() float64 {
	a := Area(p.Outer)
	for _, h := range p.Holes {
		a -= Area(h)
	}
	return a
}

// Rings returns the outer ring followed by the holes.
func (p PolygonWithHoles) Rings() []Ring {
	rings := make([]Ring, 0, 1+len(p.Holes))
	rings = append(rings, p.Outer)
	return append(rings, p.Holes...)
}
