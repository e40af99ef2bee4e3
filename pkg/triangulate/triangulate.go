// Package triangulate turns rings and polygons with holes into triangle
// index lists. Holes are first bridged into the outer ring so that both
// paths share one ear-clipping core.
package triangulate

import (
	"math"

	"github.com/chazu/floorplan/pkg/geom"
)

// convexEpsilon is the minimum cross product for a vertex to count as convex.
const convexEpsilon = 1e-9

// Result is a flattened point list and the triangles over it. Indices
// holds three entries per triangle, each triangle counter-clockwise in the
// plane.
type Result struct {
	Points  []geom.Point2
	Indices []int
}

// TriangleCount returns the number of triangles.
func (r Result) TriangleCount() int {
	return len(r.Indices) / 3
}

// IsEmpty reports whether r has no triangles.
func (r Result) IsEmpty() bool {
	return len(r.Indices) == 0
}

// Triangle returns the corners of the i-th triangle.
func (r Result) Triangle(i int) (a, b, c geom.Point2) {
	return r.Points[r.Indices[3*i]], r.Points[r.Indices[3*i+1]], r.Points[r.Indices[3*i+2]]
}

// Area returns the summed unsigned area of all triangles.
func (r Result) Area() float64 {
	var a float64
	for i := 0; i < r.TriangleCount(); i++ {
		p, q, s := r.Triangle(i)
		a += math.Abs(geom.Orient(p, q, s)) / 2
	}
	return a
}

// Ring triangulates a single ring. Indices reference the ring's own points.
func Ring(r geom.Ring) Result {
	if len(r) < 3 {
		return Result{}
	}
	pts := r.Clone()
	return Result{Points: pts, Indices: EarClip(pts)}
}

// Polygon triangulates a polygon with holes: the holes are merged into the
// outer ring (see MergeHoles) and the merged ring is ear-clipped. Without
// holes this is Ring(p.Outer).
func Polygon(p geom.PolygonWithHoles) Result {
	if len(p.Outer) < 3 {
		return Result{}
	}
	if len(p.Holes) == 0 {
		return Ring(p.Outer)
	}
	merged := MergeHoles(p.Outer, p.Holes)
	return Result{Points: merged, Indices: EarClip(merged)}
}

// EarClip triangulates the simple (possibly self-touching) polygon pts and
// returns three indices into pts per triangle. The traversal is normalized
// to counter-clockwise first. Each step removes a convex vertex whose
// triangle contains no other remaining vertex. The loop stops when two
// vertices remain, when no ear exists, or after len(pts)² iterations;
// triangles found up to that point are returned.
func EarClip(pts []geom.Point2) []int {
	m := len(pts)
	if m < 3 {
		return nil
	}
	v := make([]int, m)
	for i := range v {
		v[i] = i
	}
	if geom.SignedArea(geom.Ring(pts)) < 0 {
		for i, j := 0, m-1; i < j; i, j = i+1, j-1 {
			v[i], v[j] = v[j], v[i]
		}
	}

	out := make([]int, 0, 3*(m-2))
	guard := m * m
	for iter := 0; len(v) > 2 && iter < guard; iter++ {
		ear := findEar(pts, v)
		if ear < 0 {
			break
		}
		k := len(v)
		out = append(out, v[(ear-1+k)%k], v[ear], v[(ear+1)%k])
		v = append(v[:ear], v[ear+1:]...)
	}
	return out
}

// findEar returns the position in v of the first ear, or -1.
func findEar(pts []geom.Point2, v []int) int {
	k := len(v)
	for i := 0; i < k; i++ {
		a := pts[v[(i-1+k)%k]]
		b := pts[v[i]]
		c := pts[v[(i+1)%k]]
		if geom.Orient(a, b, c) <= convexEpsilon {
			continue
		}
		if !earBlocked(pts, v, i, a, b, c) {
			return i
		}
	}
	return -1
}

// earBlocked reports whether any remaining vertex other than the ear's
// corners lies in triangle abc. Vertices coinciding with a corner are the
// duplicated bridge points of merged holes and never block.
func earBlocked(pts []geom.Point2, v []int, i int, a, b, c geom.Point2) bool {
	k := len(v)
	for j, idx := range v {
		if j == i || j == (i-1+k)%k || j == (i+1)%k {
			continue
		}
		q := pts[idx]
		if q.Equal(a, geom.Epsilon) || q.Equal(b, geom.Epsilon) || q.Equal(c, geom.Epsilon) {
			continue
		}
		if inTriangle(q, a, b, c) {
			return true
		}
	}
	return false
}

// inTriangle is the barycentric point-in-triangle test, boundary inclusive.
func inTriangle(p, a, b, c geom.Point2) bool {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d02 := v0.Dot(v2)
	d11 := v1.Dot(v1)
	d12 := v1.Dot(v2)
	den := d00*d11 - d01*d01
	if math.Abs(den) < 1e-12 {
		return false
	}
	u := (d11*d02 - d01*d12) / den
	w := (d00*d12 - d01*d02) / den
	return u >= 0 && w >= 0 && u+w <= 1
}
