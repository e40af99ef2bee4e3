// Package tessellate turns a floor plan into renderable meshes using a
// geometry kernel. Every wall becomes one mesh, every enclosed room a
// ground and a ceiling mesh. Build is read-only and never mutates the
// plan; each call recomputes the whole scene.
package tessellate

import (
	"context"
	"fmt"
	"log"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chazu/floorplan/internal/telemetry"
	"github.com/chazu/floorplan/pkg/boolean"
	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/offset"
	"github.com/chazu/floorplan/pkg/plan"
	"github.com/chazu/floorplan/pkg/region"
)

// Mesh kinds.
const (
	KindWall    = "wall"
	KindGround  = "ground"
	KindCeiling = "ceiling"
)

// Options tune a build. The zero value is usable.
type Options struct {
	// Logger receives degrade events; nil means log.Default().
	Logger *log.Logger
	// Tracer opens one span per stage; nil means the global provider.
	Tracer trace.Tracer
	// Inset shrinks ground and ceiling surfaces away from the walls.
	Inset float64
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}
	return telemetry.Tracer("tessellate")
}

// Room is an enclosed region of the plan.
type Room struct {
	ID      plan.ID               `json:"id"`
	Name    string                `json:"name"`
	Outline geom.PolygonWithHoles `json:"outline"`
	Area    float64               `json:"area"`
}

// Scene is the output of Build. Meshes are in the Y-up scene frame.
type Scene struct {
	Meshes    []*kernel.Mesh          `json:"meshes"`
	Rooms     []Room                  `json:"rooms"`
	Footprint []geom.PolygonWithHoles `json:"footprint"`
	Warnings  []string                `json:"warnings,omitempty"`
}

// Build validates p and produces its scene with kernel k. A plan with
// blocking validation errors is refused with an error wrapping
// plan.ErrInvalidPlan. A nil plan yields an empty scene.
func Build(ctx context.Context, p *plan.Plan, k kernel.Kernel, opts Options) (*Scene, error) {
	scene := &Scene{}
	if p == nil {
		return scene, nil
	}
	tr := opts.tracer()
	ctx, span := tr.Start(ctx, "tessellate.Build")
	defer span.End()

	res := plan.ValidateAll(p)
	if err := res.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	for _, w := range res.Warnings {
		scene.Warnings = append(scene.Warnings, w.String())
	}

	walls, err := buildWalls(ctx, tr, p, k)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	scene.Meshes = append(scene.Meshes, walls...)

	scene.Rooms, scene.Footprint = findRooms(ctx, tr, p)
	scene.Meshes = append(scene.Meshes, buildSurfaces(ctx, tr, p, scene.Rooms, opts)...)

	span.SetAttributes(
		attribute.Int("walls", p.WallCount()),
		attribute.Int("rooms", len(scene.Rooms)),
		attribute.Int("meshes", len(scene.Meshes)),
	)
	return scene, nil
}

// ---------------------------------------------------------------------------
// Walls
// ---------------------------------------------------------------------------

func buildWalls(ctx context.Context, tr trace.Tracer, p *plan.Plan, k kernel.Kernel) ([]*kernel.Mesh, error) {
	_, span := tr.Start(ctx, "tessellate.walls")
	defer span.End()

	var meshes []*kernel.Mesh
	for _, w := range p.Walls {
		if w.Degenerate() {
			continue
		}
		m, err := wallMesh(k, w, p.OpeningsOn(w.ID), p.Level.Elevation)
		if err != nil {
			return nil, fmt.Errorf("tessellate: wall %s: %w", w.Label(), err)
		}
		m.Name = w.Label()
		m.Kind = KindWall
		m.ToYUp()
		meshes = append(meshes, m)
	}
	span.SetAttributes(attribute.Int("meshes", len(meshes)))
	return meshes, nil
}

// wallMesh builds w in the Z-up kernel frame. A plain wall is its plan
// footprint extruded upward. A wall with openings is its elevation profile
// minus the openings, extruded through the wall thickness and stood up on
// the centerline.
func wallMesh(k kernel.Kernel, w *plan.Wall, openings []*plan.Opening, elevation float64) (*kernel.Mesh, error) {
	base := elevation + w.Base
	if len(openings) == 0 {
		s := k.Prism(geom.PolygonWithHoles{Outer: w.Footprint()}, w.Height)
		return k.ToMesh(k.Translate(s, 0, 0, base))
	}

	cuts := make([]geom.Ring, 0, len(openings))
	for _, o := range openings {
		cuts = append(cuts, o.Profile())
	}
	full := geom.Bounds{Max: geom.Pt(w.Length(), w.Height)}.Ring()
	pieces := boolean.Subtract([]geom.Ring{full}, cuts).Polygons()

	dir := w.End.Sub(w.Start)
	angle := math.Atan2(dir.Y, dir.X) * 180 / math.Pi

	out := &kernel.Mesh{}
	for _, piece := range pieces {
		s := k.Prism(piece, w.Thickness)
		s = k.Translate(s, 0, 0, -w.Thickness/2)
		// Profile y becomes up, the extrusion axis becomes the wall normal.
		s = k.Rotate(s, 90, 0, angle)
		s = k.Translate(s, w.Start.X, w.Start.Y, base)
		m, err := k.ToMesh(s)
		if err != nil {
			return nil, err
		}
		out.Append(m)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

func findRooms(ctx context.Context, tr trace.Tracer, p *plan.Plan) ([]Room, []geom.PolygonWithHoles) {
	_, span := tr.Start(ctx, "tessellate.rooms")
	defer span.End()

	footprints := p.Footprints()
	outlines := region.Search(footprints, p.Level.MinRoomArea)
	rooms := make([]Room, 0, len(outlines))
	for i, o := range outlines {
		rooms = append(rooms, Room{
			ID:      plan.NewID("room", p.Level.Name, fmt.Sprintf("#%d", i)),
			Name:    fmt.Sprintf("room-%d", i+1),
			Outline: o,
			Area:    o.Area(),
		})
	}
	union := boolean.UnionAll(footprints).Polygons()
	span.SetAttributes(attribute.Int("rooms", len(rooms)), attribute.Int("footprints", len(footprints)))
	return rooms, union
}

// ---------------------------------------------------------------------------
// Grounds and ceilings
// ---------------------------------------------------------------------------

func buildSurfaces(ctx context.Context, tr trace.Tracer, p *plan.Plan, rooms []Room, opts Options) []*kernel.Mesh {
	_, span := tr.Start(ctx, "tessellate.surfaces")
	defer span.End()

	lg := opts.logger()
	floor := p.Level.Elevation
	ceiling := floor + p.Level.CeilingHeight

	var meshes []*kernel.Mesh
	for _, r := range rooms {
		outline := r.Outline
		if opts.Inset != 0 {
			outline = offset.Polygon(outline, -opts.Inset)
		}
		pts, idx, fellBack := triangulateOutline(outline)
		if fellBack {
			lg.Printf("tessellate: room %s: ear clipping incomplete, used earcut", r.Name)
		}
		if len(idx) == 0 {
			lg.Printf("tessellate: room %s: nothing to render", r.Name)
			continue
		}

		g := kernel.FlatMesh(pts, idx, floor, true)
		g.Name, g.Kind = r.Name, KindGround
		c := kernel.FlatMesh(pts, idx, ceiling, false)
		c.Name, c.Kind = r.Name, KindCeiling
		meshes = append(meshes, g, c)
	}
	span.SetAttributes(attribute.Int("meshes", len(meshes)))
	return meshes
}
