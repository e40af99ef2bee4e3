package triangulate

import (
	"math"

	"github.com/rclancey/earcut"

	"github.com/chazu/floorplan/pkg/geom"
)

// AreaTolerance is the relative area deviation above which a hole-merge
// triangulation counts as incomplete.
const AreaTolerance = 1e-6

// Checked triangulates p with Polygon and verifies that the triangles
// cover |outer| - sum|holes|. When they do not, which happens after a
// nearest-vertex bridge crossed an edge or the ear-clipping guard ran out,
// it retries with earcut and reports fellBack. If earcut fails as well the
// partial ear-clipping result is returned.
func Checked(p geom.PolygonWithHoles) (res Result, fellBack bool) {
	want := p.Area()
	if len(p.Outer) < 3 || want <= 0 {
		return Result{}, false
	}
	res = Polygon(p)
	if math.Abs(res.Area()-want) <= AreaTolerance*want {
		return res, false
	}
	if ec, ok := Earcut(p); ok {
		return ec, true
	}
	return res, true
}

// Earcut triangulates p with github.com/rclancey/earcut. Points are the
// outer ring (CCW) followed by the holes (CW); triangles come out CCW.
func Earcut(p geom.PolygonWithHoles) (Result, bool) {
	if len(p.Outer) < 3 {
		return Result{}, false
	}
	rings := []geom.Ring{p.Outer.CCW()}
	for _, h := range p.Holes {
		if len(h) >= 3 {
			rings = append(rings, h.CW())
		}
	}

	var pts []geom.Point2
	var holes []int
	for i, r := range rings {
		if i > 0 {
			holes = append(holes, len(pts))
		}
		pts = append(pts, r...)
	}
	coords := make([]float64, 0, 2*len(pts))
	for _, pt := range pts {
		coords = append(coords, pt.X, pt.Y)
	}

	idx, err := earcut.Earcut(coords, holes, 2)
	if err != nil || len(idx) < 3 || len(idx)%3 != 0 {
		return Result{}, false
	}
	for i := 0; i+2 < len(idx); i += 3 {
		if geom.Orient(pts[idx[i]], pts[idx[i+1]], pts[idx[i+2]]) < 0 {
			idx[i+1], idx[i+2] = idx[i+2], idx[i+1]
		}
	}
	return Result{Points: pts, Indices: idx}, true
}
