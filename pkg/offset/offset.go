// Package offset moves every edge of a closed ring along its normal and
// re-joins neighbouring edges with miter joins.
package offset

import "github.com/chazu/floorplan/pkg/geom"

// Ring returns r offset by distance. Each edge a→b has the outward normal
// (dy, -dx)/|ab|, which points away from the interior of a counter-clockwise
// ring: a positive distance grows such a ring and a negative one shrinks
// it. Clockwise input simply flips the effect.
//
// Every output vertex is the intersection of the two offset edges meeting
// at it. Parallel neighbours fall back to moving the vertex along the
// normalized sum of the two normals, and a 180° fold (sum is zero) to the
// outgoing edge's normal. The result is not checked for self-intersection.
func Ring(r geom.Ring, distance float64) geom.Ring {
	n := len(r)
	if n < 3 {
		return nil
	}
	out := make(geom.Ring, n)
	if distance == 0 {
		copy(out, r)
		return out
	}
	for i := range r {
		prev := r[(i-1+n)%n]
		cur := r[i]
		next := r[(i+1)%n]
		out[i] = miter(prev, cur, next, distance)
	}
	return out
}

// Polygon offsets the outer ring by distance and every hole by -distance,
// so a positive distance grows the solid area on both boundaries. The
// windings of the input rings are normalized first (outer CCW, holes CW).
func Polygon(p geom.PolygonWithHoles, distance float64) geom.PolygonWithHoles {
	out := geom.PolygonWithHoles{Outer: Ring(p.Outer.CCW(), distance)}
	for _, h := range p.Holes {
		// Outward normals of a CW hole point into the hole, so the same
		// sign grows the surrounding solid.
		if oh := Ring(h.CW(), distance); oh != nil {
			out.Holes = append(out.Holes, oh)
		}
	}
	return out
}

// normal returns the outward unit normal of edge a→b.
func normal(a, b geom.Point2) geom.Point2 {
	d := b.Sub(a).Normalize()
	return geom.Point2{X: d.Y, Y: -d.X}
}

// miter computes the offset position of cur between edges prev→cur and
// cur→next.
func miter(prev, cur, next geom.Point2, distance float64) geom.Point2 {
	n0 := normal(prev, cur)
	n1 := normal(cur, next)

	a0 := prev.Add(n0.Scale(distance))
	a1 := cur.Add(n0.Scale(distance))
	b0 := cur.Add(n1.Scale(distance))
	b1 := next.Add(n1.Scale(distance))

	if p, ok := geom.LineIntersect(a0, a1, b0, b1); ok {
		return p
	}
	sum := n0.Add(n1)
	if sum.Len() < geom.Epsilon {
		// 180° fold: follow the outgoing edge.
		return cur.Add(n1.Scale(distance))
	}
	return cur.Add(sum.Normalize().Scale(distance))
}
