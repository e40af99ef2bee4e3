// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Surfaces come out of marching cubes, so wall meshes are approximate and
// much denser than the prism kernel's. The backend suits previews and
// exports that want rounded, watertight geometry.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// ErrEmptySolid marks a solid built from degenerate input.
var ErrEmptySolid = errors.New("sdfx: empty solid")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid. A solid whose
// construction failed carries the error instead and reports it from ToMesh.
type sdfxSolid struct {
	s   sdf.SDF3
	err error
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	if s.s == nil {
		return min, max
	}
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel. cells is the marching cubes resolution
// along the longest bounding box axis; values below 1 use DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells < 1 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the marching cubes resolution.
func (k *SdfxKernel) Cells() int {
	return k.cells
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func failed(err error) kernel.Solid {
	return &sdfxSolid{err: err}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}
	if ss.err != nil {
		return nil, ss.err
	}
	return ss.s, nil
}

// Box creates a box with its minimum corner at the origin.
// sdf.Box3D centers the box at the origin, so we translate by half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return failed(fmt.Errorf("sdfx: Box3D: %w", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Prism extrudes footprint from z=0 to z=height. Holes are subtracted from
// the outer polygon before extrusion.
func (k *SdfxKernel) Prism(footprint geom.PolygonWithHoles, height float64) kernel.Solid {
	if height <= 0 {
		return failed(ErrEmptySolid)
	}
	outer, err := polygon(footprint.Outer)
	if err != nil {
		return failed(err)
	}
	for _, h := range footprint.Holes {
		hole, err := polygon(h)
		if err != nil {
			continue
		}
		outer = sdf.Difference2D(outer, hole)
	}
	// Extrude3D centers on z.
	s := sdf.Extrude3D(outer, height)
	return wrap(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2})))
}

// polygon converts a ring to an SDF2, oriented counter-clockwise.
func polygon(r geom.Ring) (sdf.SDF2, error) {
	clean, ok := geom.Clean(r)
	if !ok || geom.Area(clean) < geom.Epsilon {
		return nil, ErrEmptySolid
	}
	clean = clean.CCW()
	verts := make([]v2.Vec, len(clean))
	for i, p := range clean {
		verts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, fmt.Errorf("sdfx: Polygon2D: %w", err)
	}
	return s, nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	s3, err := unwrap(s)
	if err != nil {
		return failed(err)
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(s3, m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	s3, err := unwrap(s)
	if err != nil {
		return failed(err)
	}
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(s3, m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		m.AddTriangle(
			[3]float64{tri[0].X, tri[0].Y, tri[0].Z},
			[3]float64{tri[1].X, tri[1].Y, tri[1].Z},
			[3]float64{tri[2].X, tri[2].Y, tri[2].Z},
		)
	}
	return m, nil
}
