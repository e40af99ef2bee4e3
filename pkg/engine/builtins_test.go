package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/plan"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(wall "a" :from p)`,
			expect: `(wall "a" "__kw_from" p)`,
		},
		{
			name:   "multiple keywords",
			input:  `(door :at 400 :width 900)`,
			expect: `(door "__kw_at" 400 "__kw_width" 900)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(rect-walls "a")`,
			expect: `(rect_walls "a")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(pt -60 0)`,
			expect: `(pt -60 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:min-room-area`,
			expect: `"__kw_min-room-area"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, src string) EvalResult {
	t.Helper()
	res, err := NewEngine().Run(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}
	if res.Plan == nil {
		t.Fatal("expected non-nil plan")
	}
	return res
}

func evalErrors(t *testing.T, src string) []EvalError {
	t.Helper()
	res, err := NewEngine().Run(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if res.Plan != nil {
		t.Fatal("expected nil plan on eval error")
	}
	return res.Errors
}

func TestSimpleWall(t *testing.T) {
	res := mustEval(t, `
(wall "south" :from (pt 0 0) :to (pt 6000 0) :thickness 200 :height 2400 :base 100)
`)
	w := res.Plan.Lookup("south")
	if w == nil {
		t.Fatal("expected wall named 'south'")
	}
	if w.Start != geom.Pt(0, 0) || w.End != geom.Pt(6000, 0) {
		t.Errorf("centerline = %v -> %v", w.Start, w.End)
	}
	if w.Thickness != 200 || w.Height != 2400 || w.Base != 100 {
		t.Errorf("dimensions = %v/%v/%v, want 200/2400/100", w.Thickness, w.Height, w.Base)
	}
	if w.ID != plan.NewID("wall", "south") {
		t.Errorf("id = %s, want name-derived id", w.ID)
	}
}

func TestWallDefaults(t *testing.T) {
	res := mustEval(t, `(wall "w" :from (pt 0 0) :to (pt 10 0))`)
	w := res.Plan.Walls[0]
	d := plan.DefaultDefaults()
	if w.Thickness != d.WallThickness || w.Height != d.WallHeight {
		t.Errorf("got %v x %v, want defaults", w.Thickness, w.Height)
	}
}

func TestVariableReference(t *testing.T) {
	res := mustEval(t, `
(def th 240)
(def span 3000)
(wall "w" :from (pt 0 0) :to (pt span 0) :thickness th)
`)
	w := res.Plan.Walls[0]
	if w.Thickness != 240 || w.End.X != 3000 {
		t.Errorf("wall = %+v", w)
	}
}

func TestLevel(t *testing.T) {
	res := mustEval(t, `(level :name "first" :elevation 3000 :ceiling 2600 :min-room-area 2)`)
	lv := res.Plan.Level
	if lv.Name != "first" || lv.Elevation != 3000 || lv.CeilingHeight != 2600 || lv.MinRoomArea != 2 {
		t.Errorf("level = %+v", lv)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestLevelTwiceWarns(t *testing.T) {
	res := mustEval(t, "(level :elevation 0)\n(level :elevation 10)")
	if res.Plan.Level.Elevation != 10 {
		t.Errorf("elevation = %v, want 10", res.Plan.Level.Elevation)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", res.Warnings)
	}
}

func TestRectWalls(t *testing.T) {
	res := mustEval(t, `(rect-walls "outer" (pt 6000 4000) (pt 0 0) :thickness 120)`)
	p := res.Plan
	if p.WallCount() != 4 {
		t.Fatalf("expected 4 walls, got %d", p.WallCount())
	}
	want := map[string][2]geom.Point2{
		"outer/south": {geom.Pt(0, 0), geom.Pt(6000, 0)},
		"outer/east":  {geom.Pt(6000, 0), geom.Pt(6000, 4000)},
		"outer/north": {geom.Pt(6000, 4000), geom.Pt(0, 4000)},
		"outer/west":  {geom.Pt(0, 4000), geom.Pt(0, 0)},
	}
	for name, seg := range want {
		w := p.Lookup(name)
		if w == nil {
			t.Fatalf("missing wall %q", name)
		}
		if w.Start != seg[0] || w.End != seg[1] {
			t.Errorf("%s = %v -> %v, want %v -> %v", name, w.Start, w.End, seg[0], seg[1])
		}
	}
}

func TestWallsChain(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		walls int
	}{
		{"open", `(walls "hall" (pt 0 0) (pt 10 0) (pt 10 10))`, 2},
		{"closed", `(walls "hall" :closed true (pt 0 0) (pt 10 0) (pt 10 10))`, 3},
		{"points list", `(walls "hall" :closed true :points (list (pt 0 0) (pt 10 0) (pt 10 10) (pt 0 10)))`, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustEval(t, tt.src)
			if got := res.Plan.WallCount(); got != tt.walls {
				t.Fatalf("walls = %d, want %d", got, tt.walls)
			}
			if res.Plan.Lookup("hall/0") == nil {
				t.Error("missing hall/0")
			}
		})
	}
}

func TestDoorAndWindow(t *testing.T) {
	res := mustEval(t, `
(def s (wall "south" :from (pt 0 0) :to (pt 6000 0)))
(door :wall s :at 1500 :width 800)
(window :wall "south" :at 4000 :sill 1000)
`)
	p := res.Plan
	if len(p.Openings) != 2 {
		t.Fatalf("openings = %d, want 2", len(p.Openings))
	}
	wall := p.Lookup("south")
	door, win := p.Openings[0], p.Openings[1]
	if door.Kind != plan.Door || door.Wall != wall.ID || door.Offset != 1500 || door.Width != 800 {
		t.Errorf("door = %+v", door)
	}
	if door.Height != plan.DefaultDefaults().DoorHeight || door.Sill != 0 {
		t.Errorf("door defaults not applied: %+v", door)
	}
	if win.Kind != plan.Window || win.Sill != 1000 || win.Width != plan.DefaultDefaults().WindowWidth {
		t.Errorf("window = %+v", win)
	}
}

func TestOpeningDefaultsToWallMiddle(t *testing.T) {
	res := mustEval(t, `
(wall "w" :from (pt 0 0) :to (pt 4000 0))
(door :wall "w")
`)
	if got := res.Plan.Openings[0].Offset; got != 2000 {
		t.Errorf("offset = %v, want 2000", got)
	}
}

func TestWallLength(t *testing.T) {
	res := mustEval(t, `
(wall "w" :from (pt 0 0) :to (pt 3000 4000))
(window :wall "w" :at (/ (wall-length "w") 2))
`)
	if got := res.Plan.Openings[0].Offset; math.Abs(got-2500) > 1e-9 {
		t.Errorf("offset = %v, want 2500", got)
	}
}

func TestDuplicateWallNameWarns(t *testing.T) {
	res := mustEval(t, `
(wall "w" :from (pt 0 0) :to (pt 10 0))
(wall "w" :from (pt 0 0) :to (pt 0 10))
`)
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "already used") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestZeroLengthWallWarns(t *testing.T) {
	res := mustEval(t, `(wall "dot" :from (pt 5 5) :to (pt 5 5))`)
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "zero length") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown wall", `(door :wall "nope")`, "no wall named"},
		{"missing wall", `(window :at 10)`, "missing :wall"},
		{"missing from", `(wall "w" :to (pt 1 0))`, "missing :from"},
		{"pt arity", `(pt 1)`, "exactly 2"},
		{"pt type", `(pt "a" 1)`, "expected number"},
		{"bad point", `(wall "w" :from 3 :to (pt 1 0))`, "expected point"},
		{"walls too short", `(walls "w" (pt 0 0))`, "at least 2 points"},
		{"rect arity", `(rect-walls "r" (pt 0 0))`, "two corner points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrors(t, tt.src)
			if len(errs) == 0 {
				t.Fatal("expected eval errors")
			}
			if !strings.Contains(errs[0].Message, tt.want) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.want)
			}
		})
	}
}
