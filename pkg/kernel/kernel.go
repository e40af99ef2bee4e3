// Package kernel defines the solid kernel interface used to build wall
// geometry, and the flat triangle Mesh every backend produces.
//
// Solids live in a Z-up frame: plan X and Y are the horizontal axes and
// Prism extrudes along +Z. The scene pipeline converts finished meshes to
// the Y-up scene frame with Mesh.ToYUp.
package kernel

import "github.com/chazu/floorplan/pkg/geom"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and places solids. Implementations: prism (exact
// polygonal) and sdfx (signed distance fields, marching cubes).
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Prism(footprint geom.PolygonWithHoles, height float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
