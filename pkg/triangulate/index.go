package triangulate

import (
	"math"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/dhconnelly/rtreego"
)

// indexPad widens every box in the edge index. rtreego rejects boxes with
// a zero side, which axis-aligned edges would otherwise produce.
const indexPad = 1e-6

// edge is one boundary segment stored in the R-tree.
type edge struct {
	a, b geom.Point2
	box  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *edge) Bounds() rtreego.Rect {
	return e.box
}

// edgeIndex answers "does this segment touch any boundary edge" without
// scanning every edge for every bridge candidate.
type edgeIndex struct {
	tree *rtreego.Rtree
}

// newEdgeIndex bulk-loads the edges of rings into an R-tree.
func newEdgeIndex(rings ...geom.Ring) *edgeIndex {
	var objs []rtreego.Spatial
	for _, r := range rings {
		for i := range r {
			a, b := r.Edge(i)
			objs = append(objs, &edge{a: a, b: b, box: segmentBox(a, b)})
		}
	}
	return &edgeIndex{tree: rtreego.NewTree(2, 8, 32, objs...)}
}

// crosses reports whether segment pq touches any indexed edge other than
// at a shared endpoint.
func (x *edgeIndex) crosses(p, q geom.Point2) bool {
	for _, s := range x.tree.SearchIntersect(segmentBox(p, q)) {
		e := s.(*edge)
		if segmentsTouch(p, q, e.a, e.b) {
			return true
		}
	}
	return false
}

// segmentBox returns the padded bounding box of segment ab.
func segmentBox(a, b geom.Point2) rtreego.Rect {
	minX, minY := math.Min(a.X, b.X)-indexPad, math.Min(a.Y, b.Y)-indexPad
	w := math.Abs(a.X-b.X) + 2*indexPad
	h := math.Abs(a.Y-b.Y) + 2*indexPad
	r, err := rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
	if err != nil {
		// NaN coordinates.
		r, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{indexPad, indexPad})
	}
	return r
}
