// Package prism implements kernel.Kernel with exact polygonal solids.
//
// A solid is a closed triangle soup. Prisms cap their footprint with the
// hole-aware triangulation and wall every ring edge with a quad, so door
// and window cuts come out with jamb, head and sill faces.
package prism

import (
	"errors"
	"math"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/triangulate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// ErrForeignSolid is returned when a solid from another kernel is passed in.
var ErrForeignSolid = errors.New("prism: solid was not built by this kernel")

type vec3 = [3]float64

// solid is an immutable list of counter-clockwise outward triangles.
type solid struct {
	tris [][3]vec3
}

// BoundingBox returns the axis-aligned bounding box. An empty solid
// returns zero vectors.
func (s *solid) BoundingBox() (min, max [3]float64) {
	if len(s.tris) == 0 {
		return min, max
	}
	min, max = s.tris[0][0], s.tris[0][0]
	for _, t := range s.tris {
		for _, v := range t {
			for k := 0; k < 3; k++ {
				min[k] = math.Min(min[k], v[k])
				max[k] = math.Max(max[k], v[k])
			}
		}
	}
	return min, max
}

// Kernel builds prisms and boxes.
type Kernel struct{}

// New returns a Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Box creates a box with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 {
		return &solid{}
	}
	b := geom.Bounds{Max: geom.Pt(x, y)}
	return k.Prism(geom.PolygonWithHoles{Outer: b.Ring()}, z)
}

// Prism extrudes footprint from z=0 to z=height. The outer ring and holes
// may have any winding. Invalid footprints and non-positive heights give
// an empty solid. Caps come from triangulate.Checked, so a hole merge that
// had to bridge across another hole still yields closed caps.
func (k *Kernel) Prism(footprint geom.PolygonWithHoles, height float64) kernel.Solid {
	if height <= 0 {
		return &solid{}
	}
	outer, ok := geom.Clean(footprint.Outer)
	if !ok || geom.Area(outer) < geom.Epsilon {
		return &solid{}
	}
	fp := geom.PolygonWithHoles{Outer: outer.CCW()}
	for _, h := range footprint.Holes {
		if hole, ok := geom.Clean(h); ok && geom.Area(hole) >= geom.Epsilon {
			fp.Holes = append(fp.Holes, hole.CW())
		}
	}

	tri, _ := triangulate.Checked(fp)
	if tri.IsEmpty() {
		return &solid{}
	}
	s := &solid{tris: make([][3]vec3, 0, 2*tri.TriangleCount()+2*len(outer))}
	for i := 0; i < tri.TriangleCount(); i++ {
		a, b, c := tri.Triangle(i)
		s.tris = append(s.tris,
			[3]vec3{at(a, 0), at(c, 0), at(b, 0)},
			[3]vec3{at(a, height), at(b, height), at(c, height)},
		)
	}
	for _, r := range fp.Rings() {
		for i := range r {
			a, b := r.Edge(i)
			a0, b0, a1, b1 := at(a, 0), at(b, 0), at(a, height), at(b, height)
			s.tris = append(s.tris, [3]vec3{a0, b0, b1}, [3]vec3{a0, b1, a1})
		}
	}
	return s
}

func at(p geom.Point2, z float64) vec3 {
	return vec3{p.X, p.Y, z}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, func(v vec3) vec3 {
		return vec3{v[0] + x, v[1] + y, v[2] + z}
	})
}

// Rotate rotates a solid by Euler angles (degrees) around the X, then Y,
// then Z axis, all through the origin.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := mul(rotZ(z), mul(rotY(y), rotX(x)))
	return transform(s, func(v vec3) vec3 {
		return vec3{
			m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
			m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
			m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
		}
	})
}

// ToMesh flattens a solid into a mesh with per-face normals.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ps, ok := s.(*solid)
	if !ok {
		return nil, ErrForeignSolid
	}
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*len(ps.tris)),
		Normals:  make([]float32, 0, 9*len(ps.tris)),
		Indices:  make([]uint32, 0, 3*len(ps.tris)),
	}
	for _, t := range ps.tris {
		m.AddTriangle(t[0], t[1], t[2])
	}
	return m, nil
}

// transform maps every vertex of s through f. Foreign solids pass through
// unchanged and fail later in ToMesh.
func transform(s kernel.Solid, f func(vec3) vec3) kernel.Solid {
	ps, ok := s.(*solid)
	if !ok {
		return s
	}
	out := &solid{tris: make([][3]vec3, len(ps.tris))}
	for i, t := range ps.tris {
		out.tris[i] = [3]vec3{f(t[0]), f(t[1]), f(t[2])}
	}
	return out
}

type mat3 [3][3]float64

func mul(a, b mat3) mat3 {
	var m mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				m[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return m
}

func rotX(deg float64) mat3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return mat3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotY(deg float64) mat3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return mat3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotZ(deg float64) mat3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}
