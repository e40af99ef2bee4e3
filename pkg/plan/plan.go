package plan

import (
	"fmt"
	"sort"

	"github.com/chazu/floorplan/pkg/geom"
)

// MinWallLength is the shortest centerline the pipeline builds.
const MinWallLength = 1e-3

// Wall is a straight wall segment.
type Wall struct {
	ID        ID          `json:"id"`
	Name      string      `json:"name,omitempty"`
	Start     geom.Point2 `json:"start"`
	End       geom.Point2 `json:"end"`
	Thickness float64     `json:"thickness"`
	Height    float64     `json:"height"`
	Base      float64     `json:"base"` // bottom elevation relative to the level
}

// Length returns the centerline length.
func (w *Wall) Length() float64 {
	return geom.Distance(w.Start, w.End)
}

// Degenerate reports whether the wall is too short to build.
func (w *Wall) Degenerate() bool {
	return w.Length() < MinWallLength
}

// Footprint returns the CCW plan rectangle covered by the wall, or nil for
// a degenerate wall.
func (w *Wall) Footprint() geom.Ring {
	if w.Degenerate() {
		return nil
	}
	return geom.ThickSegmentPolygon(w.Start, w.End, w.Thickness)
}

// At returns the centerline point at distance d from Start.
func (w *Wall) At(d float64) geom.Point2 {
	l := w.Length()
	if l == 0 {
		return w.Start
	}
	return geom.Lerp(w.Start, w.End, d/l)
}

// Label returns the wall name, or the short id for unnamed walls.
func (w *Wall) Label() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID.Short()
}

// OpeningKind distinguishes doors from windows.
type OpeningKind int

const (
	Door OpeningKind = iota
	Window
)

func (k OpeningKind) String() string {
	switch k {
	case Door:
		return "door"
	case Window:
		return "window"
	default:
		return fmt.Sprintf("OpeningKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OpeningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OpeningKind) UnmarshalText(b []byte) error {
	kind, err := ParseOpeningKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseOpeningKind parses "door" or "window".
func ParseOpeningKind(s string) (OpeningKind, error) {
	switch s {
	case "door":
		return Door, nil
	case "window":
		return Window, nil
	default:
		return 0, fmt.Errorf("plan: unknown opening kind %q", s)
	}
}

// Opening is a rectangular cut through a wall. Offset is measured along
// the centerline from the wall start to the centre of the opening; Sill
// is the bottom edge above the wall base.
type Opening struct {
	ID     ID          `json:"id"`
	Kind   OpeningKind `json:"kind"`
	Wall   ID          `json:"wall"`
	Offset float64     `json:"offset"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Sill   float64     `json:"sill"`
}

// Span returns the opening extent along the wall centerline.
func (o *Opening) Span() (lo, hi float64) {
	return o.Offset - o.Width/2, o.Offset + o.Width/2
}

// Top returns the height of the opening head above the wall base.
func (o *Opening) Top() float64 {
	return o.Sill + o.Height
}

// Profile returns the opening as a CCW rectangle in the wall elevation
// frame: x along the centerline from the wall start, y up from the base.
func (o *Opening) Profile() geom.Ring {
	lo, hi := o.Span()
	return geom.Bounds{Min: geom.Pt(lo, o.Sill), Max: geom.Pt(hi, o.Top())}.Ring()
}

// Footprint returns the plan rectangle the opening cuts out of w.
func (o *Opening) Footprint(w *Wall) geom.Ring {
	if w.Degenerate() {
		return nil
	}
	lo, hi := o.Span()
	return geom.ThickSegmentPolygon(w.At(lo), w.At(hi), w.Thickness)
}

// Level is the storey the walls stand on.
type Level struct {
	Name          string  `json:"name,omitempty"`
	Elevation     float64 `json:"elevation"`
	CeilingHeight float64 `json:"ceilingHeight"`
	MinRoomArea   float64 `json:"minRoomArea"`
}

// Plan is one level of walls and openings.
type Plan struct {
	Level    Level      `json:"level"`
	Walls    []*Wall    `json:"walls"`
	Openings []*Opening `json:"openings,omitempty"`

	names map[string]*Wall
}

// New creates an empty plan on level.
func New(level Level) *Plan {
	return &Plan{Level: level, names: make(map[string]*Wall)}
}

// AddWall appends w. A zero ID is derived from the wall name, or from its
// index for unnamed walls.
func (p *Plan) AddWall(w *Wall) {
	if w.ID.IsZero() {
		if w.Name != "" {
			w.ID = NewID("wall", w.Name)
		} else {
			w.ID = NewID("wall", fmt.Sprintf("#%d", len(p.Walls)))
		}
	}
	p.Walls = append(p.Walls, w)
	if w.Name != "" {
		if p.names == nil {
			p.names = make(map[string]*Wall)
		}
		if _, taken := p.names[w.Name]; !taken {
			p.names[w.Name] = w
		}
	}
}

// AddOpening appends o. A zero ID is derived from the host wall and the
// opening's position in the plan.
func (p *Plan) AddOpening(o *Opening) {
	if o.ID.IsZero() {
		o.ID = NewID("opening", o.Wall.String(), fmt.Sprintf("#%d", len(p.Openings)))
	}
	p.Openings = append(p.Openings, o)
}

// Wall returns the wall with the given id, or nil.
func (p *Plan) Wall(id ID) *Wall {
	for _, w := range p.Walls {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Lookup returns the first wall added with the given name, or nil.
func (p *Plan) Lookup(name string) *Wall {
	if p.names != nil {
		if w, ok := p.names[name]; ok {
			return w
		}
	}
	for _, w := range p.Walls {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// OpeningsOn returns the openings hosted by wall id, ordered by offset.
func (p *Plan) OpeningsOn(id ID) []*Opening {
	var out []*Opening
	for _, o := range p.Openings {
		if o.Wall == id {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// Footprints returns the plan rectangles of all buildable walls.
func (p *Plan) Footprints() []geom.Ring {
	var out []geom.Ring
	for _, w := range p.Walls {
		if fp := w.Footprint(); fp != nil {
			out = append(out, fp)
		}
	}
	return out
}

// Bounds returns the plan bounds of all wall footprints.
func (p *Plan) Bounds() geom.Bounds {
	return geom.RingBounds(p.Footprints()...)
}

// WallCount returns the number of walls.
func (p *Plan) WallCount() int {
	return len(p.Walls)
}
