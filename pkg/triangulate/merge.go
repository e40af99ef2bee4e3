package triangulate

import (
	"math"

	"github.com/chazu/floorplan/pkg/geom"
)

// MergeHoles splices every hole into the outer ring and returns the merged
// boundary as one point list. The outer ring is normalized to CCW and the
// holes to CW; holes with fewer than three points are ignored.
//
// Holes are processed in input order. For each hole the rightmost vertex H
// is bridged to the first vertex V of the current merged boundary such that
//   - segment H–V touches no edge of the merged boundary, the hole itself or
//     a hole that is still waiting to be merged (shared endpoints excepted),
//   - H lies inside the interior wedge of the merged boundary at V,
//   - the midpoint of H–V lies inside the outer ring.
//
// When no vertex passes, the nearest merged vertex to H is used; that
// fallback can produce a self-intersecting ring on adversarial input. The
// hole is inserted as V, H, ..., H, V so both bridge points are duplicated.
func MergeHoles(outer geom.Ring, holes []geom.Ring) []geom.Point2 {
	if len(outer) < 3 {
		return nil
	}
	outer = outer.CCW()
	merged := make([]geom.Point2, len(outer))
	copy(merged, outer)

	norm := make([]geom.Ring, 0, len(holes))
	for _, h := range holes {
		if len(h) >= 3 {
			norm = append(norm, h.CW())
		}
	}
	for i, h := range norm {
		merged = spliceHole(merged, outer, h, norm[i+1:])
	}
	return merged
}

// rightmost returns the index of the first vertex with maximum x.
func rightmost(r geom.Ring) int {
	best := 0
	for i, p := range r {
		if p.X > r[best].X {
			best = i
		}
	}
	return best
}

// spliceHole inserts hole into merged through a bridge from its rightmost
// vertex.
func spliceHole(merged []geom.Point2, outer, hole geom.Ring, pending []geom.Ring) []geom.Point2 {
	hr := rightmost(hole)
	h := hole[hr]

	rings := make([]geom.Ring, 0, 2+len(pending))
	rings = append(rings, geom.Ring(merged), hole)
	rings = append(rings, pending...)
	idx := newEdgeIndex(rings...)

	vis := -1
	for vi := range merged {
		if bridgeValid(merged, vi, h, outer, idx) {
			vis = vi
			break
		}
	}
	if vis < 0 {
		vis = nearest(merged, h)
	}

	n := len(hole)
	out := make([]geom.Point2, 0, len(merged)+n+2)
	out = append(out, merged[:vis+1]...)
	for k := 0; k < n; k++ {
		out = append(out, hole[(hr+k)%n])
	}
	out = append(out, h, merged[vis])
	out = append(out, merged[vis+1:]...)
	return out
}

// bridgeValid checks whether merged[vi] can see h.
func bridgeValid(merged []geom.Point2, vi int, h geom.Point2, outer geom.Ring, idx *edgeIndex) bool {
	v := merged[vi]
	if idx.crosses(h, v) {
		return false
	}
	k := len(merged)
	if !locallyInside(merged[(vi-1+k)%k], v, merged[(vi+1)%k], h) {
		return false
	}
	return geom.PointInPolygon(geom.Lerp(h, v, 0.5), outer)
}

// locallyInside reports whether the direction v→h points into the interior
// wedge at v of a CCW boundary with neighbours prev and next. Bridge points
// appear twice in a merged ring; only one copy has h in its wedge.
func locallyInside(prev, v, next, h geom.Point2) bool {
	left := geom.Orient(prev, v, h) > geom.Epsilon
	leftNext := geom.Orient(v, next, h) > geom.Epsilon
	if geom.Orient(prev, v, next) > geom.Epsilon {
		return left && leftNext
	}
	return left || leftNext
}

// nearest returns the index of the merged vertex closest to h.
func nearest(merged []geom.Point2, h geom.Point2) int {
	best, bestD := 0, math.Inf(1)
	for i, p := range merged {
		if d := geom.DistanceSq(p, h); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// segmentsTouch reports whether segments ab and cd intersect, counting
// touching and collinear overlap but not segments that share an endpoint.
func segmentsTouch(a, b, c, d geom.Point2) bool {
	const eps = geom.Epsilon
	if a.Equal(c, eps) || a.Equal(d, eps) || b.Equal(c, eps) || b.Equal(d, eps) {
		return false
	}
	d1 := geom.Orient(c, d, a)
	d2 := geom.Orient(c, d, b)
	d3 := geom.Orient(a, b, c)
	d4 := geom.Orient(a, b, d)
	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	return (math.Abs(d1) <= eps && onSegment(c, d, a)) ||
		(math.Abs(d2) <= eps && onSegment(c, d, b)) ||
		(math.Abs(d3) <= eps && onSegment(a, b, c)) ||
		(math.Abs(d4) <= eps && onSegment(a, b, d))
}

// onSegment reports whether r, known to be collinear with pq, lies within
// the bounding box of pq.
func onSegment(p, q, r geom.Point2) bool {
	const eps = geom.Epsilon
	return math.Min(p.X, q.X)-eps <= r.X && r.X <= math.Max(p.X, q.X)+eps &&
		math.Min(p.Y, q.Y)-eps <= r.Y && r.Y <= math.Max(p.Y, q.Y)+eps
}
