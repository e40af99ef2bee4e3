package prism

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/kernel"
)

func rect(x0, y0, x1, y1 float64) geom.Ring {
	return geom.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// volume returns the signed volume enclosed by m. Outward-facing closed
// meshes have positive volume.
func volume(m *kernel.Mesh) float64 {
	var v float64
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		v += a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return v / 6
}

func mustMesh(t *testing.T, k *Kernel, s kernel.Solid) *kernel.Mesh {
	t.Helper()
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	return m
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh := mustMesh(t, k, box)
	if mesh.TriangleCount() != 12 {
		t.Errorf("box triangle count = %d, want 12", mesh.TriangleCount())
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if got := volume(mesh); !closeTo(got, 100*50*25, 1e-3) {
		t.Errorf("box volume = %v, want %v", got, 100*50*25)
	}
	min, max := box.BoundingBox()
	if min != [3]float64{0, 0, 0} || max != [3]float64{100, 50, 25} {
		t.Errorf("box bounds = %v %v", min, max)
	}
}

func TestPrism(t *testing.T) {
	tests := []struct {
		name      string
		footprint geom.PolygonWithHoles
		height    float64
		wantTris  int
		wantVol   float64
	}{
		{
			name:      "ccw square",
			footprint: geom.PolygonWithHoles{Outer: rect(0, 0, 10, 10)},
			height:    5,
			wantTris:  2*2 + 2*4,
			wantVol:   500,
		},
		{
			name:      "cw square",
			footprint: geom.PolygonWithHoles{Outer: rect(0, 0, 10, 10).Reversed()},
			height:    5,
			wantTris:  2*2 + 2*4,
			wantVol:   500,
		},
		{
			name: "square with hole",
			footprint: geom.PolygonWithHoles{
				Outer: rect(0, 0, 10, 10),
				Holes: []geom.Ring{rect(4, 4, 6, 6)},
			},
			height:   2,
			wantTris: 2*8 + 2*8,
			wantVol:  192,
		},
		{
			name: "l shape",
			footprint: geom.PolygonWithHoles{Outer: geom.Ring{
				{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0, Y: 3},
			}},
			height:   3,
			wantTris: 2*4 + 2*6,
			wantVol:  18,
		},
		{
			name: "degenerate hole dropped",
			footprint: geom.PolygonWithHoles{
				Outer: rect(0, 0, 10, 10),
				Holes: []geom.Ring{{{X: 1, Y: 1}, {X: 2, Y: 2}}},
			},
			height:   1,
			wantTris: 2*2 + 2*4,
			wantVol:  100,
		},
	}
	k := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := mustMesh(t, k, k.Prism(tt.footprint, tt.height))
			if mesh.TriangleCount() != tt.wantTris {
				t.Errorf("triangle count = %d, want %d", mesh.TriangleCount(), tt.wantTris)
			}
			if got := volume(mesh); !closeTo(got, tt.wantVol, 1e-6*math.Max(1, tt.wantVol)) {
				t.Errorf("volume = %v, want %v", got, tt.wantVol)
			}
		})
	}
}

func TestPrismCapsFaceOutward(t *testing.T) {
	k := New()
	mesh := mustMesh(t, k, k.Prism(geom.PolygonWithHoles{Outer: rect(0, 0, 2, 2)}, 1))
	var up, down int
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		n := kernel.FaceNormal(a, b, c)
		switch {
		case n[2] > 0.99:
			up++
			if a[2] != 1 {
				t.Errorf("up-facing triangle at z=%v", a[2])
			}
		case n[2] < -0.99:
			down++
			if a[2] != 0 {
				t.Errorf("down-facing triangle at z=%v", a[2])
			}
		}
	}
	if up != 2 || down != 2 {
		t.Errorf("caps: %d up, %d down; want 2 and 2", up, down)
	}
}

// A triangular hole sitting in the cavity of a C-shaped hole leaves the
// hole merge no visible bridge; the caps must still cover the footprint.
func TestPrismBlockedBridgeCaps(t *testing.T) {
	fp := geom.PolygonWithHoles{
		Outer: rect(0, 0, 100, 100),
		Holes: []geom.Ring{
			{{X: 40, Y: 43}, {X: 50, Y: 48}, {X: 40, Y: 53}},
			{
				{X: 30, Y: 30}, {X: 70, Y: 30}, {X: 70, Y: 60}, {X: 65, Y: 60},
				{X: 65, Y: 35}, {X: 35, Y: 35}, {X: 35, Y: 65}, {X: 65, Y: 65},
				{X: 65, Y: 62}, {X: 70, Y: 62}, {X: 70, Y: 70}, {X: 30, Y: 70},
			},
		},
	}
	const height = 4.0
	area := fp.Area() // 10000 - 50 - 690

	k := New()
	mesh := mustMesh(t, k, k.Prism(fp, height))

	var top float64
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		if n := kernel.FaceNormal(a, b, c); n[2] > 0.99 {
			top += math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
		}
	}
	if !closeTo(top, area, 1e-6*area) {
		t.Errorf("top cap area = %v, want %v", top, area)
	}
	if got, want := volume(mesh), area*height; !closeTo(got, want, 1e-6*want) {
		t.Errorf("volume = %v, want %v", got, want)
	}
}

func TestPrismEmpty(t *testing.T) {
	k := New()
	tests := []struct {
		name      string
		footprint geom.PolygonWithHoles
		height    float64
	}{
		{"zero height", geom.PolygonWithHoles{Outer: rect(0, 0, 1, 1)}, 0},
		{"negative height", geom.PolygonWithHoles{Outer: rect(0, 0, 1, 1)}, -1},
		{"two points", geom.PolygonWithHoles{Outer: geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}}}, 1},
		{"collinear", geom.PolygonWithHoles{Outer: geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}, 1},
		{"nil", geom.PolygonWithHoles{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := mustMesh(t, k, k.Prism(tt.footprint, tt.height))
			if !mesh.IsEmpty() {
				t.Errorf("expected empty mesh, got %d triangles", mesh.TriangleCount())
			}
		})
	}
	if mesh := mustMesh(t, k, k.Box(0, 1, 1)); !mesh.IsEmpty() {
		t.Error("zero-width box should be empty")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()
	if min != [3]float64{100, 200, 300} || max != [3]float64{110, 210, 310} {
		t.Errorf("translated bounds = %v %v", min, max)
	}
	// The original is untouched.
	if _, max := box.BoundingBox(); max != [3]float64{10, 10, 10} {
		t.Errorf("source solid changed: max = %v", max)
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	tests := []struct {
		name       string
		x, y, z    float64
		wantExtent [3]float64
	}{
		{"z 90", 0, 0, 90, [3]float64{10, 100, 10}},
		{"x 90", 90, 0, 0, [3]float64{100, 10, 10}},
		{"y 90", 0, 90, 0, [3]float64{10, 10, 100}},
		{"x 90 then z 90", 90, 0, 90, [3]float64{10, 100, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rotated := k.Rotate(box, tt.x, tt.y, tt.z)
			min, max := rotated.BoundingBox()
			for i := 0; i < 3; i++ {
				if got := max[i] - min[i]; !closeTo(got, tt.wantExtent[i], 1e-6) {
					t.Errorf("extent[%d] = %v, want %v", i, got, tt.wantExtent[i])
				}
			}
			// Rotation keeps the solid closed and outward.
			if v := volume(mustMesh(t, k, rotated)); !closeTo(v, 10000, 1e-3) {
				t.Errorf("rotated volume = %v, want 10000", v)
			}
		})
	}
}

type foreignSolid struct{}

func (foreignSolid) BoundingBox() (min, max [3]float64) { return min, max }

func TestForeignSolid(t *testing.T) {
	k := New()
	var s kernel.Solid = foreignSolid{}
	if got := k.Translate(s, 1, 2, 3); got != s {
		t.Error("foreign solid should pass through Translate unchanged")
	}
	if _, err := k.ToMesh(s); !errors.Is(err, ErrForeignSolid) {
		t.Errorf("ToMesh error = %v, want ErrForeignSolid", err)
	}
}
