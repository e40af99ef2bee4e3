package triangulate

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/chazu/floorplan/pkg/geom"
)

func square(x0, y0, x1, y1 float64) geom.Ring {
	return geom.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// starRing returns a random simple ring that is star-shaped around the
// origin.
func starRing(rng *rand.Rand, n int) geom.Ring {
	var angles []float64
	for {
		angles = angles[:0]
		for i := 0; i < n; i++ {
			angles = append(angles, rng.Float64()*2*math.Pi)
		}
		sort.Float64s(angles)
		maxGap := angles[0] + 2*math.Pi - angles[n-1]
		for i := 1; i < n; i++ {
			maxGap = math.Max(maxGap, angles[i]-angles[i-1])
		}
		if maxGap < 0.95*math.Pi {
			break
		}
	}
	r := make(geom.Ring, n)
	for i, a := range angles {
		rad := 0.3 + 0.7*rng.Float64()
		r[i] = geom.Pt(rad*math.Cos(a), rad*math.Sin(a))
	}
	return r
}

// ---------------------------------------------------------------------------
// Single ring
// ---------------------------------------------------------------------------

func TestRingTriangleCountAndArea(t *testing.T) {
	tests := []struct {
		name string
		ring geom.Ring
	}{
		{"triangle", geom.Ring{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 4}}},
		{"square", square(0, 0, 2, 2)},
		{"cw square", square(0, 0, 2, 2).Reversed()},
		{"L shape", geom.Ring{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4}}},
		{"comb", geom.Ring{
			{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 7, Y: 3}, {X: 6, Y: 3}, {X: 6, Y: 1},
			{X: 4, Y: 1}, {X: 4, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}, {X: 1, Y: 1},
			{X: 1, Y: 3}, {X: 0, Y: 3},
		}},
		{"concave arrow", geom.Ring{{X: 0, Y: 0}, {X: 5, Y: 2}, {X: 0, Y: 4}, {X: 2, Y: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Ring(tt.ring)
			if got, want := res.TriangleCount(), len(tt.ring)-2; got != want {
				t.Fatalf("TriangleCount() = %d, want %d", got, want)
			}
			if got, want := res.Area(), geom.Area(tt.ring); math.Abs(got-want) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, want)
			}
			for i := 0; i < res.TriangleCount(); i++ {
				a, b, c := res.Triangle(i)
				if geom.Orient(a, b, c) <= 0 {
					t.Errorf("triangle %d is not counter-clockwise", i)
				}
			}
		})
	}
}

func TestRingIndicesReferenceInput(t *testing.T) {
	r := square(0, 0, 1, 1).Reversed()
	res := Ring(r)
	for _, idx := range res.Indices {
		if !res.Points[idx].Equal(r[idx], 0) {
			t.Fatalf("index %d does not reference input point", idx)
		}
	}
}

func TestRingRandomStars(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 300; trial++ {
		n := 3 + rng.Intn(38)
		r := starRing(rng, n)
		if trial%2 == 1 {
			r = r.Reversed()
		}
		res := Ring(r)
		if res.TriangleCount() != n-2 {
			t.Fatalf("trial %d: %d triangles for %d points", trial, res.TriangleCount(), n)
		}
		if math.Abs(res.Area()-geom.Area(r)) > 1e-9 {
			t.Fatalf("trial %d: area %v, want %v", trial, res.Area(), geom.Area(r))
		}
	}
}

func TestRingDegenerate(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		if res := Ring(geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}}); !res.IsEmpty() {
			t.Errorf("expected empty result, got %d triangles", res.TriangleCount())
		}
	})
	t.Run("collinear", func(t *testing.T) {
		res := Ring(geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
		if !res.IsEmpty() {
			t.Errorf("expected no triangles, got %d", res.TriangleCount())
		}
	})
	t.Run("self-intersecting returns partial result", func(t *testing.T) {
		bowtie := geom.Ring{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}
		res := Ring(bowtie)
		if len(res.Indices)%3 != 0 {
			t.Fatalf("indices length %d not a multiple of 3", len(res.Indices))
		}
		if res.TriangleCount() > len(bowtie)-2 {
			t.Errorf("too many triangles: %d", res.TriangleCount())
		}
	})
}

// ---------------------------------------------------------------------------
// Polygons with holes
// ---------------------------------------------------------------------------

// assertHolesEmpty fails if any triangle's centroid falls inside a hole.
func assertHolesEmpty(t *testing.T, res Result, holes []geom.Ring) {
	t.Helper()
	for i := 0; i < res.TriangleCount(); i++ {
		a, b, c := res.Triangle(i)
		centre := a.Add(b).Add(c).Scale(1.0 / 3)
		for _, h := range holes {
			if geom.PointInPolygon(centre, h) {
				t.Errorf("triangle %d (%v %v %v) lies in hole %v", i, a, b, c, h)
			}
		}
	}
}

func TestPolygonCenteredHole(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := square(4, 4, 6, 6)
	windings := []struct {
		name  string
		outer geom.Ring
		hole  geom.Ring
	}{
		{"ccw/ccw", outer, hole},
		{"cw/ccw", outer.Reversed(), hole},
		{"ccw/cw", outer, hole.Reversed()},
		{"cw/cw", outer.Reversed(), hole.Reversed()},
	}
	for _, w := range windings {
		t.Run(w.name, func(t *testing.T) {
			res := Polygon(geom.PolygonWithHoles{Outer: w.outer, Holes: []geom.Ring{w.hole}})
			if got := res.Area(); math.Abs(got-96) > 1e-9 {
				t.Errorf("Area() = %v, want 96", got)
			}
			if got := res.TriangleCount(); got != 8 {
				t.Errorf("TriangleCount() = %d, want 8", got)
			}
			assertHolesEmpty(t, res, []geom.Ring{hole})
		})
	}
}

func TestPolygonMultipleHoles(t *testing.T) {
	tests := []struct {
		name  string
		outer geom.Ring
		holes []geom.Ring
	}{
		{
			"two holes left to right",
			square(0, 0, 20, 10),
			[]geom.Ring{square(2, 2, 5, 5), square(12, 3, 16, 7)},
		},
		{
			"two holes right to left",
			square(0, 0, 20, 10),
			[]geom.Ring{square(12, 3, 16, 7), square(2, 2, 5, 5)},
		},
		{
			"three holes in a row",
			square(0, 0, 30, 10),
			[]geom.Ring{square(2, 2, 5, 5), square(12, 3, 16, 7), square(20, 1, 25, 8)},
		},
		{
			"hole in L shaped room",
			geom.Ring{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 12}, {X: 0, Y: 12}},
			[]geom.Ring{square(1, 1, 3, 3)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := geom.PolygonWithHoles{Outer: tt.outer, Holes: tt.holes}
			res := Polygon(p)
			if got, want := res.Area(), p.Area(); math.Abs(got-want) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, want)
			}
			if got, want := res.TriangleCount(), len(res.Points)-2; got != want {
				t.Errorf("TriangleCount() = %d, want %d", got, want)
			}
			assertHolesEmpty(t, res, tt.holes)
		})
	}
}

func TestPolygonIgnoresDegenerateHole(t *testing.T) {
	p := geom.PolygonWithHoles{
		Outer: square(0, 0, 4, 4),
		Holes: []geom.Ring{{{X: 1, Y: 1}, {X: 2, Y: 2}}},
	}
	res := Polygon(p)
	if got := res.Area(); math.Abs(got-16) > 1e-9 {
		t.Errorf("Area() = %v, want 16", got)
	}
}

func TestPolygonInvalidOuter(t *testing.T) {
	res := Polygon(geom.PolygonWithHoles{Outer: geom.Ring{{X: 0, Y: 0}}})
	if !res.IsEmpty() {
		t.Error("expected empty result for invalid outer ring")
	}
}

// ---------------------------------------------------------------------------
// Merge internals
// ---------------------------------------------------------------------------

func TestMergeHolesLayout(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := square(4, 4, 6, 6)
	merged := MergeHoles(outer, []geom.Ring{hole})
	if got, want := len(merged), 4+4+2; got != want {
		t.Fatalf("merged length = %d, want %d", got, want)
	}
	// Normalized to clockwise the hole starts (4,6), (6,6), so the first
	// rightmost vertex is (6,6).
	h := -1
	for i, p := range merged {
		if p.Equal(geom.Pt(6, 6), 0) {
			h = i
			break
		}
	}
	if h < 1 {
		t.Fatalf("rightmost hole vertex not found in %v", merged)
	}
	v := merged[h-1]
	if !merged[h+5].Equal(v, 0) || !merged[h+4].Equal(merged[h], 0) {
		t.Errorf("expected V,H,...,H,V splice, got %v", merged)
	}
}

func TestLocallyInside(t *testing.T) {
	// Convex corner at the origin of a CCW square.
	prev, v, next := geom.Pt(0, 1), geom.Pt(0, 0), geom.Pt(1, 0)
	if !locallyInside(prev, v, next, geom.Pt(1, 1)) {
		t.Error("diagonal into the square should be inside")
	}
	if locallyInside(prev, v, next, geom.Pt(-1, -1)) {
		t.Error("direction away from the square should be outside")
	}
	// Reflex corner: the notch of an L.
	prev, v, next = geom.Pt(2, 1), geom.Pt(1, 1), geom.Pt(1, 2)
	if !locallyInside(prev, v, next, geom.Pt(0.5, 0.5)) {
		t.Error("point inside the L should be inside the reflex wedge")
	}
	if locallyInside(prev, v, next, geom.Pt(2, 2)) {
		t.Error("point in the notch should be outside")
	}
}

func TestSegmentsTouch(t *testing.T) {
	tests := []struct {
		name string
		s    [4]geom.Point2
		want bool
	}{
		{"proper crossing", [4]geom.Point2{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 2, Y: 0}}, true},
		{"disjoint", [4]geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, false},
		{"shared endpoint", [4]geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, false},
		{"passes through vertex", [4]geom.Point2{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 1, Y: 1}, {X: 3, Y: 0}}, true},
		{"collinear overlap", [4]geom.Point2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}}, true},
		{"collinear apart", [4]geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segmentsTouch(tt.s[0], tt.s[1], tt.s[2], tt.s[3]); got != tt.want {
				t.Errorf("segmentsTouch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgeIndexCrosses(t *testing.T) {
	idx := newEdgeIndex(square(0, 0, 10, 10), square(4, 4, 6, 6))
	if !idx.crosses(geom.Pt(5, -1), geom.Pt(5, 5)) {
		t.Error("segment through the outer edge and into the hole should cross")
	}
	if idx.crosses(geom.Pt(1, 1), geom.Pt(3, 3)) {
		t.Error("segment in open space should not cross")
	}
	if idx.crosses(geom.Pt(6, 6), geom.Pt(10, 10)) {
		t.Error("segment between two vertices should not cross")
	}
}

// ---------------------------------------------------------------------------
// Blocked bridges and the checked path
// ---------------------------------------------------------------------------

// blockedBridge returns a 100x100 square with two holes: a triangle whose
// rightmost vertex (50,48) sits in the cavity of a C-shaped second hole.
// The C surrounds the triangle except for a slot on its right side at
// y 60..62, so every segment from (50,48) to an outer corner crosses the
// C and the merge has to fall back to the nearest corner, (0,0).
func blockedBridge() geom.PolygonWithHoles {
	tri := geom.Ring{{X: 40, Y: 43}, {X: 50, Y: 48}, {X: 40, Y: 53}}
	c := geom.Ring{
		{X: 30, Y: 30}, {X: 70, Y: 30}, {X: 70, Y: 60}, {X: 65, Y: 60},
		{X: 65, Y: 35}, {X: 35, Y: 35}, {X: 35, Y: 65}, {X: 65, Y: 65},
		{X: 65, Y: 62}, {X: 70, Y: 62}, {X: 70, Y: 70}, {X: 30, Y: 70},
	}
	return geom.PolygonWithHoles{Outer: square(0, 0, 100, 100), Holes: []geom.Ring{tri, c}}
}

func TestMergeHolesNearestFallback(t *testing.T) {
	p := blockedBridge()
	merged := MergeHoles(p.Outer, p.Holes)

	if got, want := len(merged), 4+(3+2)+(12+2); got != want {
		t.Fatalf("merged length = %d, want %d", got, want)
	}
	h := geom.Pt(50, 48)
	if !merged[0].Equal(geom.Pt(0, 0), 0) || !merged[1].Equal(h, 0) {
		t.Errorf("expected bridge (0,0) -> %v at the start, got %v %v", h, merged[0], merged[1])
	}
	if !merged[4].Equal(h, 0) || !merged[5].Equal(geom.Pt(0, 0), 0) {
		t.Errorf("expected the bridge to return to (0,0), got %v %v", merged[4], merged[5])
	}
	for _, r := range p.Rings() {
		for _, pt := range r {
			found := false
			for _, m := range merged {
				if m.Equal(pt, 0) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("point %v missing from merged ring", pt)
			}
		}
	}
}

func TestCheckedFallsBackToEarcut(t *testing.T) {
	p := blockedBridge()
	want := p.Area() // 10000 - 50 - 690

	res, fellBack := Checked(p)
	if !fellBack {
		t.Error("expected the crossing bridge to trigger the earcut retry")
	}
	if got := res.Area(); math.Abs(got-want) > AreaTolerance*want {
		t.Errorf("Area() = %v, want %v", got, want)
	}
	for i := 0; i < res.TriangleCount(); i++ {
		a, b, c := res.Triangle(i)
		if geom.Orient(a, b, c) < 0 {
			t.Errorf("triangle %d is clockwise", i)
		}
	}
	assertHolesEmpty(t, res, p.Holes)
}

func TestChecked(t *testing.T) {
	tests := []struct {
		name      string
		poly      geom.PolygonWithHoles
		wantArea  float64
		wantEmpty bool
	}{
		{
			name:     "centered hole",
			poly:     geom.PolygonWithHoles{Outer: square(0, 0, 10, 10), Holes: []geom.Ring{square(4, 4, 6, 6)}},
			wantArea: 96,
		},
		{
			name:     "plain ring",
			poly:     geom.PolygonWithHoles{Outer: square(0, 0, 3, 2).Reversed()},
			wantArea: 6,
		},
		{
			name:      "degenerate outer",
			poly:      geom.PolygonWithHoles{Outer: geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 1}}},
			wantEmpty: true,
		},
		{
			name:      "hole covers outer",
			poly:      geom.PolygonWithHoles{Outer: square(0, 0, 1, 1), Holes: []geom.Ring{square(-1, -1, 2, 2)}},
			wantEmpty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, fellBack := Checked(tt.poly)
			if fellBack {
				t.Error("unexpected fallback")
			}
			if tt.wantEmpty {
				if !res.IsEmpty() {
					t.Errorf("expected no triangles, got %d", res.TriangleCount())
				}
				return
			}
			if got := res.Area(); math.Abs(got-tt.wantArea) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, tt.wantArea)
			}
		})
	}
}

func TestEarcut(t *testing.T) {
	p := geom.PolygonWithHoles{Outer: square(0, 0, 10, 10).Reversed(), Holes: []geom.Ring{square(4, 4, 6, 6)}}
	res, ok := Earcut(p)
	if !ok {
		t.Fatal("earcut failed")
	}
	if got := res.Area(); math.Abs(got-96) > 1e-9 {
		t.Errorf("Area() = %v, want 96", got)
	}
	for i := 0; i < res.TriangleCount(); i++ {
		a, b, c := res.Triangle(i)
		if geom.Orient(a, b, c) < 0 {
			t.Errorf("triangle %d is clockwise", i)
		}
	}
	if _, ok := Earcut(geom.PolygonWithHoles{}); ok {
		t.Error("expected failure for an empty polygon")
	}
}
