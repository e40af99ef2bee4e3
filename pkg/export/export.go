// Package export writes rooms and wall footprints as GeoJSON.
//
// Coordinates stay in plan units; the output is a planar feature
// collection, not geographic data.
package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/plan"
	"github.com/chazu/floorplan/pkg/tessellate"
)

// Rooms returns one Polygon feature per room. With tol > 0 every ring is
// simplified with Douglas-Peucker first; rings that collapse below three
// distinct points are dropped, and a room whose outer ring collapses is
// left out.
func Rooms(rooms []tessellate.Room, tol float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range rooms {
		poly, ok := Polygon(r.Outline, tol)
		if !ok {
			continue
		}
		f := geojson.NewFeature(poly)
		f.ID = r.ID.String()
		f.Properties["kind"] = "room"
		f.Properties["name"] = r.Name
		f.Properties["area"] = planar.Area(poly)
		fc.Append(f)
	}
	return fc
}

// Walls appends one Polygon feature per buildable wall footprint to fc.
func Walls(fc *geojson.FeatureCollection, p *plan.Plan) *geojson.FeatureCollection {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	if p == nil {
		return fc
	}
	for _, w := range p.Walls {
		fp := w.Footprint()
		if fp == nil {
			continue
		}
		poly, ok := Polygon(geom.PolygonWithHoles{Outer: fp}, 0)
		if !ok {
			continue
		}
		f := geojson.NewFeature(poly)
		f.ID = w.ID.String()
		f.Properties["kind"] = "wall"
		f.Properties["name"] = w.Label()
		f.Properties["thickness"] = w.Thickness
		f.Properties["height"] = w.Height
		f.Properties["openings"] = len(p.OpeningsOn(w.ID))
		fc.Append(f)
	}
	return fc
}

// Polygon converts p to an orb polygon with closed rings, the outer ring
// counter-clockwise and holes clockwise. ok is false when the outer ring
// does not survive simplification.
func Polygon(p geom.PolygonWithHoles, tol float64) (orb.Polygon, bool) {
	outer, ok := ring(p.Outer.CCW(), tol)
	if !ok {
		return nil, false
	}
	poly := orb.Polygon{outer}
	for _, h := range p.Holes {
		if r, ok := ring(h.CW(), tol); ok {
			poly = append(poly, r)
		}
	}
	return poly, true
}

// ring closes r and simplifies it when tol > 0.
func ring(r geom.Ring, tol float64) (orb.Ring, bool) {
	if !r.Valid() {
		return nil, false
	}
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.X, p.Y})
	}
	out = append(out, out[0])
	if tol <= 0 {
		return out, true
	}
	s, ok := simplify.DouglasPeucker(tol).Simplify(out.Clone()).(orb.Ring)
	// A closed ring needs three distinct points plus the closing one.
	if !ok || len(s) < 4 {
		return nil, false
	}
	return s, true
}
