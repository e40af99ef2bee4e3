package kernel

import (
	"math"

	"github.com/chazu/floorplan/pkg/geom"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Triangles are counter-clockwise seen from their front side.
type Mesh struct {
	Vertices []float32 `json:"vertices"`       // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`        // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`        // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`           // plan element the mesh came from
	Kind     string    `json:"kind,omitempty"` // wall, ground or ceiling
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) [3]float64 {
	return [3]float64{float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2])}
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c [3]float64) {
	return m.Vertex(int(m.Indices[3*i])), m.Vertex(int(m.Indices[3*i+1])), m.Vertex(int(m.Indices[3*i+2]))
}

// AddTriangle appends a triangle with its own three vertices, all carrying
// the face normal.
func (m *Mesh) AddTriangle(a, b, c [3]float64) {
	n := FaceNormal(a, b, c)
	base := uint32(m.VertexCount())
	for _, v := range [3][3]float64{a, b, c} {
		m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
		m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// Append adds the geometry of o to m.
func (m *Mesh) Append(o *Mesh) {
	if o == nil {
		return
	}
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// ToYUp converts m in place from the Z-up kernel frame to the Y-up scene
// frame by swapping the Y and Z axes. The swap mirrors the mesh, so every
// triangle's winding is reversed to keep its front side.
func (m *Mesh) ToYUp() {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		m.Vertices[i+1], m.Vertices[i+2] = m.Vertices[i+2], m.Vertices[i+1]
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		m.Normals[i+1], m.Normals[i+2] = m.Normals[i+2], m.Normals[i+1]
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
	}
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.VertexCount() == 0 {
		return min, max
	}
	min = m.Vertex(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], v[k])
			max[k] = math.Max(max[k], v[k])
		}
	}
	return min, max
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var total float64
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		total += length(cross(sub(b, a), sub(c, a))) / 2
	}
	return total
}

// FlatMesh builds a horizontal mesh in the Y-up scene frame from a planar
// triangulation: plan (x, y) maps to (x, elevation, y). Triangles are
// counter-clockwise in the plan. With up set the mesh faces +Y, which
// reverses the plan winding; otherwise it faces -Y.
func FlatMesh(points []geom.Point2, indices []int, elevation float64, up bool) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 3*len(points)),
		Normals:  make([]float32, 0, 3*len(points)),
		Indices:  make([]uint32, 0, len(indices)),
	}
	ny := float32(-1)
	if up {
		ny = 1
	}
	for _, p := range points {
		m.Vertices = append(m.Vertices, float32(p.X), float32(elevation), float32(p.Y))
		m.Normals = append(m.Normals, 0, ny, 0)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := uint32(indices[i]), uint32(indices[i+1]), uint32(indices[i+2])
		if up {
			b, c = c, b
		}
		m.Indices = append(m.Indices, a, b, c)
	}
	return m
}

// FaceNormal returns the unit normal of triangle abc by the right-hand
// rule, or the zero vector for a degenerate triangle.
func FaceNormal(a, b, c [3]float64) [3]float64 {
	n := cross(sub(b, a), sub(c, a))
	l := length(n)
	if l < geom.Epsilon {
		return [3]float64{}
	}
	return [3]float64{n[0] / l, n[1] / l, n[2] / l}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func length(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
