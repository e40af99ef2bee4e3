// Package preview draws a floor plan in the terminal using tcell.
package preview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/chazu/floorplan/pkg/geom"
	"github.com/chazu/floorplan/pkg/plan"
	"github.com/chazu/floorplan/pkg/tessellate"
)

// Cell glyphs.
const (
	GlyphWall   = '#'
	GlyphRoom   = '.'
	GlyphDoor   = '+'
	GlyphWindow = '='
)

// cellAspect is how much taller a terminal cell is than wide.
const cellAspect = 2.0

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Renderer draws plans onto a canvas.
type Renderer struct {
	canvas Canvas
}

// NewRenderer creates a renderer for the given canvas.
func NewRenderer(c Canvas) *Renderer {
	return &Renderer{canvas: c}
}

// shape is a filled region with its glyph.
type shape struct {
	poly  geom.PolygonWithHoles
	glyph rune
	style tcell.Style
}

func (s *shape) contains(p geom.Point2) bool {
	if !geom.PointInPolygon(p, s.poly.Outer) {
		return false
	}
	for _, h := range s.poly.Holes {
		if geom.PointInPolygon(p, h) {
			return false
		}
	}
	return true
}

// Render fills the canvas with p and its rooms. The bottom row holds a
// legend. Plan Y grows up the screen.
func (r *Renderer) Render(p *plan.Plan, rooms []tessellate.Room) {
	w, h := r.canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.canvas.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	if h < 2 || w < 1 {
		return
	}

	var total float64
	for _, room := range rooms {
		total += room.Area
	}
	r.text(0, h-1, fmt.Sprintf("rooms: %d  area: %.0f", len(rooms), total),
		tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if p == nil {
		return
	}
	b := p.Bounds()
	if b.IsEmpty() {
		return
	}
	rows := h - 1
	s := math.Max(b.Width()/float64(w), b.Height()/(cellAspect*float64(rows)))
	if s <= 0 {
		return
	}

	shapes := layers(p, rooms)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < w; cx++ {
			pt := geom.Pt(
				b.Min.X+(float64(cx)+0.5)*s,
				b.Max.Y-(float64(cy)+0.5)*s*cellAspect,
			)
			for i := range shapes {
				if shapes[i].contains(pt) {
					r.canvas.SetContent(cx, cy, shapes[i].glyph, nil, shapes[i].style)
					break
				}
			}
		}
	}
}

// layers returns the shapes to draw, topmost first.
func layers(p *plan.Plan, rooms []tessellate.Room) []shape {
	var out []shape
	for _, o := range p.Openings {
		w := p.Wall(o.Wall)
		if w == nil {
			continue
		}
		fp := o.Footprint(w)
		if fp == nil {
			continue
		}
		sh := shape{poly: geom.PolygonWithHoles{Outer: fp}, glyph: GlyphWindow,
			style: tcell.StyleDefault.Foreground(tcell.ColorAqua)}
		if o.Kind == plan.Door {
			sh.glyph = GlyphDoor
			sh.style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		out = append(out, sh)
	}
	for _, fp := range p.Footprints() {
		out = append(out, shape{poly: geom.PolygonWithHoles{Outer: fp}, glyph: GlyphWall,
			style: tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)})
	}
	for _, room := range rooms {
		out = append(out, shape{poly: room.Outline, glyph: GlyphRoom,
			style: tcell.StyleDefault.Foreground(tcell.ColorGray)})
	}
	return out
}

func (r *Renderer) text(x, y int, msg string, style tcell.Style) {
	w, _ := r.canvas.Size()
	for _, ch := range msg {
		if x >= w {
			return
		}
		r.canvas.SetContent(x, y, ch, nil, style)
		x++
	}
}
