package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/plan"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms plan source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: rect-walls -> rect_walls
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a plan point produced by `pt`.
type sexpPoint struct {
	p geom.Point2
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpWallRef wraps a wall added by `wall` so openings can name their host
// without repeating the wall name.
type sexpWallRef struct {
	wall *plan.Wall
}

func (w *sexpWallRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(wallref %q)", w.wall.Label())
}
func (w *sexpWallRef) Type() *zygo.RegisteredType { return nil }

// sexpOpeningRef wraps an opening added by `door` or `window`.
type sexpOpeningRef struct {
	opening *plan.Opening
}

func (o *sexpOpeningRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", o.opening.Kind, o.opening.ID.Short())
}
func (o *sexpOpeningRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float reads keyword key into dst when present.
func (a kwArgs) float(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// point reads keyword key into dst when present.
func (a kwArgs) point(key string, dst *geom.Point2) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	p, err := toPoint(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = p
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool treats false, nil and a missing value as false.
func toBool(s zygo.Sexp) bool {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpSentinel:
		return v != zygo.SexpNull
	}
	return true
}

// toPoint extracts a point from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Point2, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point2{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Plan builder
// ---------------------------------------------------------------------------

// builder accumulates the plan while the builtins run.
type builder struct {
	defaults plan.Defaults
	plan     *plan.Plan
	warnings []EvalWarning
	levelSet bool
}

func newBuilder(d plan.Defaults) *builder {
	return &builder{defaults: d, plan: plan.New(d.Level())}
}

func (b *builder) warn(id plan.ID, format string, args ...any) {
	b.warnings = append(b.warnings, EvalWarning{ElementID: id, Message: fmt.Sprintf(format, args...)})
}

// resolveWall accepts a wall reference or a wall name.
func (b *builder) resolveWall(s zygo.Sexp) (*plan.Wall, error) {
	switch v := s.(type) {
	case *sexpWallRef:
		return v.wall, nil
	case *zygo.SexpStr:
		if w := b.plan.Lookup(v.S); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("no wall named %q", v.S)
	}
	return nil, fmt.Errorf("expected wall reference or name, got %T (%s)", s, s.SexpString(nil))
}

// newWall builds a wall named name from the keywords in pa. from and to
// are taken from pa only when the caller passes zero points.
func (b *builder) newWall(name string, pa kwArgs) (*plan.Wall, error) {
	w := &plan.Wall{
		Name:      name,
		Thickness: b.defaults.WallThickness,
		Height:    b.defaults.WallHeight,
	}
	if err := pa.point("from", &w.Start); err != nil {
		return nil, err
	}
	if err := pa.point("to", &w.End); err != nil {
		return nil, err
	}
	if err := pa.float("thickness", &w.Thickness); err != nil {
		return nil, err
	}
	if err := pa.float("height", &w.Height); err != nil {
		return nil, err
	}
	if err := pa.float("base", &w.Base); err != nil {
		return nil, err
	}
	return w, nil
}

func (b *builder) addWall(w *plan.Wall) {
	dup := w.Name != "" && b.plan.Lookup(w.Name) != nil
	b.plan.AddWall(w)
	if dup {
		b.warn(w.ID, "wall name %q already used; references resolve to the first", w.Name)
	}
	if w.Degenerate() {
		b.warn(w.ID, "wall %q has zero length and will not be built", w.Label())
	}
}

// opening builds a door or window from pa.
func (b *builder) opening(kind plan.OpeningKind, pa kwArgs) (*plan.Opening, error) {
	o := &plan.Opening{Kind: kind}
	switch kind {
	case plan.Door:
		o.Width, o.Height = b.defaults.DoorWidth, b.defaults.DoorHeight
	case plan.Window:
		o.Width, o.Height, o.Sill = b.defaults.WindowWidth, b.defaults.WindowHeight, b.defaults.WindowSill
	}

	v, ok := pa.kw["wall"]
	if !ok {
		return nil, fmt.Errorf("missing :wall")
	}
	w, err := b.resolveWall(v)
	if err != nil {
		return nil, fmt.Errorf("wall: %w", err)
	}
	o.Wall = w.ID
	o.Offset = w.Length() / 2

	if err := pa.float("at", &o.Offset); err != nil {
		return nil, err
	}
	if err := pa.float("width", &o.Width); err != nil {
		return nil, err
	}
	if err := pa.float("height", &o.Height); err != nil {
		return nil, err
	}
	if err := pa.float("sill", &o.Sill); err != nil {
		return nil, err
	}
	b.plan.AddOpening(o)
	return o, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all plan DSL builtins into a zygomys environment.
// The builtins operate on b, populating its plan during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (pt 100 200)
	// -----------------------------------------------------------------------
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: geom.Pt(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (level :name "ground" :elevation 0 :ceiling 2800 :min-room-area 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("level", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		lv := b.plan.Level
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("level: name: %w", err)
			}
			lv.Name = s
		}
		if err := pa.float("elevation", &lv.Elevation); err != nil {
			return zygo.SexpNull, fmt.Errorf("level: %w", err)
		}
		if err := pa.float("ceiling", &lv.CeilingHeight); err != nil {
			return zygo.SexpNull, fmt.Errorf("level: %w", err)
		}
		if err := pa.float("min-room-area", &lv.MinRoomArea); err != nil {
			return zygo.SexpNull, fmt.Errorf("level: %w", err)
		}
		if b.levelSet {
			b.warn(plan.ID{}, "level declared more than once; the last declaration wins")
		}
		b.levelSet = true
		b.plan.Level = lv
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (wall "south" :from (pt 0 0) :to (pt 6000 0) :thickness 120 :height 2800)
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var wallName string
		if len(pa.positional) > 0 {
			s, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wall: name: %w", err)
			}
			wallName = s
		}
		if _, ok := pa.kw["from"]; !ok {
			return zygo.SexpNull, fmt.Errorf("wall: missing :from")
		}
		if _, ok := pa.kw["to"]; !ok {
			return zygo.SexpNull, fmt.Errorf("wall: missing :to")
		}
		w, err := b.newWall(wallName, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: %w", err)
		}
		b.addWall(w)
		return &sexpWallRef{wall: w}, nil
	})

	// -----------------------------------------------------------------------
	// (walls "hall" :closed true :thickness 120 (pt 0 0) (pt 4000 0) ...)
	// (walls "hall" :points (list (pt 0 0) (pt 4000 0)))
	//
	// Chains consecutive points into walls named "hall/0", "hall/1", ...
	// -----------------------------------------------------------------------
	env.AddFunction("walls", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("walls requires a name argument")
		}
		base, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("walls: name: %w", err)
		}
		items := pa.positional[1:]
		if v, ok := pa.kw["points"]; ok {
			list, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("walls: points: %w", err)
			}
			items = append(items, list...)
		}
		var pts []geom.Point2
		for i, s := range items {
			p, err := toPoint(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("walls: point %d: %w", i, err)
			}
			pts = append(pts, p)
		}
		if len(pts) < 2 {
			return zygo.SexpNull, fmt.Errorf("walls: need at least 2 points, got %d", len(pts))
		}
		closed := false
		if v, ok := pa.kw["closed"]; ok {
			closed = toBool(v)
		}
		segs := len(pts) - 1
		if closed {
			segs = len(pts)
		}
		refs := make([]zygo.Sexp, 0, segs)
		for i := 0; i < segs; i++ {
			w, err := b.newWall(fmt.Sprintf("%s/%d", base, i), pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("walls: %w", err)
			}
			w.Start, w.End = pts[i], pts[(i+1)%len(pts)]
			b.addWall(w)
			refs = append(refs, &sexpWallRef{wall: w})
		}
		return env.NewSexpArray(refs), nil
	})

	// -----------------------------------------------------------------------
	// (rect-walls "outer" (pt 0 0) (pt 6000 4000) :thickness 120)
	//
	// Four centerline walls around the rectangle, named "outer/south",
	// "outer/east", "outer/north" and "outer/west".
	//
	// Note: registered as "rect_walls" because zygomys does not support
	// hyphens in identifiers.
	// -----------------------------------------------------------------------
	env.AddFunction("rect_walls", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("rect-walls requires a name and two corner points")
		}
		base, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect-walls: name: %w", err)
		}
		a, err := toPoint(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect-walls: corner: %w", err)
		}
		c, err := toPoint(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect-walls: corner: %w", err)
		}
		r := geom.RingBounds(geom.Ring{a, c}).Ring()
		sides := []string{"south", "east", "north", "west"}
		refs := make([]zygo.Sexp, 0, len(sides))
		for i, side := range sides {
			w, err := b.newWall(base+"/"+side, pa)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect-walls: %w", err)
			}
			w.Start, w.End = r.Edge(i)
			b.addWall(w)
			refs = append(refs, &sexpWallRef{wall: w})
		}
		return env.NewSexpArray(refs), nil
	})

	// -----------------------------------------------------------------------
	// (door :wall "south" :at 1500 :width 900 :height 2100)
	// -----------------------------------------------------------------------
	env.AddFunction("door", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		o, err := b.opening(plan.Door, parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("door: %w", err)
		}
		return &sexpOpeningRef{opening: o}, nil
	})

	// -----------------------------------------------------------------------
	// (window :wall "north" :at 3000 :width 1200 :height 1200 :sill 900)
	// -----------------------------------------------------------------------
	env.AddFunction("window", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		o, err := b.opening(plan.Window, parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("window: %w", err)
		}
		return &sexpOpeningRef{opening: o}, nil
	})

	// -----------------------------------------------------------------------
	// (wall-length "south") or (wall-length ref)
	// -----------------------------------------------------------------------
	env.AddFunction("wall_length", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("wall-length requires exactly 1 argument, got %d", len(args))
		}
		w, err := b.resolveWall(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall-length: %w", err)
		}
		return &zygo.SexpFloat{Val: w.Length()}, nil
	})
}
