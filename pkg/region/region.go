// Package region finds enclosed rooms in a set of wall footprints.
//
// A boolean difference of a site boundary and the unioned footprints yields
// a contour tree whose depth alternates between solid and hole. Extract
// walks that tree; Search builds the tree from footprints alone.
package region

import (
	"math"

	"github.com/chazu/floorplan/pkg/boolean"
	"github.com/chazu/floorplan/pkg/geom"
)

// minEnvelopePad is the smallest margin between obstacles and the search
// envelope.
const minEnvelopePad = 5.0

// Extract returns every solid node below the root depth whose absolute area
// is at least minArea, in depth-first order. Children are visited whether
// or not their parent was accepted.
func Extract(tree *boolean.Tree, minArea float64) []geom.Ring {
	var rooms []geom.Ring
	walkCandidates(tree, minArea, func(id boolean.NodeID, n *boolean.Node) {
		rooms = append(rooms, n.Ring)
	})
	return rooms
}

// ExtractPolygons is Extract with each room's direct hole children attached.
// The holes are islands of obstacle inside the room.
func ExtractPolygons(tree *boolean.Tree, minArea float64) []geom.PolygonWithHoles {
	var rooms []geom.PolygonWithHoles
	walkCandidates(tree, minArea, func(id boolean.NodeID, n *boolean.Node) {
		rooms = append(rooms, tree.Polygon(id))
	})
	return rooms
}

func walkCandidates(tree *boolean.Tree, minArea float64, emit func(boolean.NodeID, *boolean.Node)) {
	if tree == nil {
		return
	}
	tree.Walk(func(id boolean.NodeID, n *boolean.Node) {
		if n.IsHole || n.Depth == 0 {
			return
		}
		if geom.Area(n.Ring) < minArea {
			return
		}
		emit(id, n)
	})
}

// Search returns the rooms enclosed by obstacles. The obstacles are
// subtracted from a rectangle that surrounds them with a margin, so the
// tree has the envelope at depth 0, the outer face of the obstacles at
// depth 1 and enclosed rooms from depth 2 on. Open plans enclose nothing
// and yield no rooms.
func Search(obstacles []geom.Ring, minArea float64) []geom.PolygonWithHoles {
	var valid []geom.Ring
	for _, o := range obstacles {
		if o.Valid() {
			valid = append(valid, o)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	tree := boolean.Subtract([]geom.Ring{Envelope(valid)}, valid)
	return ExtractPolygons(tree, minArea)
}

// Envelope returns the CCW search rectangle around obstacles.
func Envelope(obstacles []geom.Ring) geom.Ring {
	b := geom.RingBounds(obstacles...)
	if b.IsEmpty() {
		return nil
	}
	pad := math.Max(minEnvelopePad, math.Max(b.Width(), b.Height()))
	return b.Pad(pad).Ring()
}
