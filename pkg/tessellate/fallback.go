package tessellate

import (
	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/triangulate"
)

// triangulateOutline triangulates a room outline through
// triangulate.Checked. The returned triangles are counter-clockwise in the
// plan; fellBack reports that the hole-merge result was replaced.
func triangulateOutline(p geom.PolygonWithHoles) (pts []geom.Point2, idx []int, fellBack bool) {
	res, fellBack := triangulate.Checked(p)
	return res.Points, res.Indices, fellBack
}
