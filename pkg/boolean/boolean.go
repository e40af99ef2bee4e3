// Package boolean computes union, difference, intersection and xor of
// planar ring sets and returns the result as a contour tree.
//
// Coordinates are scaled to integers before the sweep (see Scale) so the
// clipper never sees near-collinear floating point intersections. The sweep
// itself is github.com/ctessum/go.clipper.
package boolean

import (
	"fmt"
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/chazu/floorplan/pkg/geom"
)

// Scale is the fixed-point factor: coordinates are multiplied by Scale and
// rounded before clipping, and divided by it on output.
const Scale = 1000.0

// Op is a boolean operation.
type Op int

const (
	Union Op = iota
	Difference
	Intersection
	Xor
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	case Xor:
		return "xor"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

func (o Op) clipType() clipper.ClipType {
	switch o {
	case Difference:
		return clipper.CtDifference
	case Intersection:
		return clipper.CtIntersection
	case Xor:
		return clipper.CtXor
	default:
		return clipper.CtUnion
	}
}

// FillRule decides which regions of an operand count as filled.
type FillRule int

const (
	// NonZero fills every region with a non-zero winding count.
	NonZero FillRule = iota
	// EvenOdd fills regions covered an odd number of times.
	EvenOdd
)

func (f FillRule) String() string {
	switch f {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return fmt.Sprintf("FillRule(%d)", int(f))
	}
}

func (f FillRule) fillType() clipper.PolyFillType {
	if f == EvenOdd {
		return clipper.PftEvenOdd
	}
	return clipper.PftNonZero
}

// Operand is a set of rings read with one fill rule.
type Operand struct {
	Rings []geom.Ring
	Fill  FillRule
}

// Execute runs op on subject and clip and returns the result tree.
//
// Rings with fewer than three points are skipped. An empty subject yields
// an empty tree. An empty clip leaves the subject as it is for union,
// difference and xor; intersection with nothing is empty. Execute never
// fails: a sweep the clipper refuses also yields an empty tree.
func Execute(op Op, subject, clip Operand) *Tree {
	subj := toPaths(subject.Rings)
	if len(subj) == 0 {
		return NewTree()
	}
	clp := toPaths(clip.Rings)
	if len(clp) == 0 && op == Intersection {
		return NewTree()
	}

	c := clipper.NewClipper(clipper.IoStrictlySimple)
	c.AddPaths(subj, clipper.PtSubject, true)
	if len(clp) > 0 {
		c.AddPaths(clp, clipper.PtClip, true)
	}
	pt, ok := c.Execute2(op.clipType(), subject.Fill.fillType(), clip.Fill.fillType())
	if !ok || pt == nil {
		return NewTree()
	}
	return fromPolyTree(pt)
}

// UnionAll merges rings under the non-zero rule.
func UnionAll(rings []geom.Ring) *Tree {
	return Execute(Union, Operand{Rings: rings}, Operand{})
}

// Subtract removes clip from subject, both read non-zero.
func Subtract(subject, clip []geom.Ring) *Tree {
	return Execute(Difference, Operand{Rings: subject}, Operand{Rings: clip})
}

// toPaths converts rings with at least three points to scaled clipper paths.
func toPaths(rings []geom.Ring) clipper.Paths {
	var paths clipper.Paths
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		path := make(clipper.Path, len(r))
		for i, p := range r {
			path[i] = &clipper.IntPoint{X: toFixed(p.X), Y: toFixed(p.Y)}
		}
		paths = append(paths, path)
	}
	return paths
}

func toFixed(v float64) clipper.CInt {
	return clipper.CInt(math.Round(v * Scale))
}

// fromPath converts a clipper path back to plan units. ok is false when
// fewer than three distinct points survive.
func fromPath(path clipper.Path) (geom.Ring, bool) {
	pts := make([]geom.Point2, len(path))
	for i, ip := range path {
		pts[i] = geom.Point2{X: float64(ip.X) / Scale, Y: float64(ip.Y) / Scale}
	}
	return geom.Clean(pts)
}

// fromPolyTree copies a clipper PolyTree into a Tree. Contours that do not
// survive conversion are dropped and their children attach to the nearest
// kept ancestor.
func fromPolyTree(pt *clipper.PolyTree) *Tree {
	t := NewTree()
	var add func(parent NodeID, pn *clipper.PolyNode)
	add = func(parent NodeID, pn *clipper.PolyNode) {
		id := parent
		if ring, ok := fromPath(pn.Contour()); ok {
			id = t.Add(parent, ring)
		}
		for _, child := range pn.Childs() {
			add(id, child)
		}
	}
	for _, top := range pt.Childs() {
		add(NoNode, top)
	}
	return t
}
