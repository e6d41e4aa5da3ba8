package raster

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/sysmlite/pkg/capture"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

var (
	colorBackground = color.RGBA{248, 250, 252, 255} // slate-50
	colorInk        = color.RGBA{30, 41, 59, 255}    // slate-800
	colorMuted      = color.RGBA{100, 116, 139, 255} // slate-500
	colorBorder     = color.RGBA{71, 85, 105, 255}   // slate-600
	colorEdge       = color.RGBA{100, 116, 139, 255}
	colorMissing    = color.RGBA{220, 38, 38, 255} // red-600
	colorMissingBg  = color.RGBA{254, 242, 242, 255}
	colorChrome     = color.RGBA{226, 232, 240, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
)

var fills = map[model.Type]color.RGBA{
	model.TypeBlock:       {239, 246, 255, 255}, // blue-50
	model.TypeRequirement: {254, 252, 232, 255}, // yellow-50
	model.TypeActor:       {240, 253, 244, 255}, // green-50
	model.TypeUseCase:     {250, 245, 255, 255}, // purple-50
	model.TypeActivity:    {255, 247, 237, 255}, // orange-50
	model.TypePackage:     {241, 245, 249, 255}, // slate-100
	model.TypeDecision:    {255, 255, 255, 255},
}

// pen draws in image space; t maps canvas coordinates onto the image.
type pen struct {
	dc    *gg.Context
	face  font.Face
	scale float64
	t     geometry.Transform
}

func newPen(img *image.RGBA, face font.Face, t geometry.Transform) *pen {
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(face)
	dc.SetLineWidth(math.Max(t.Scale, 1))
	return &pen{dc: dc, face: face, scale: t.Scale, t: t}
}

func (p *pen) pt(q geometry.Point) geometry.Point { return p.t.Apply(q) }

// setDash takes lengths in canvas units; nil resets to a solid stroke.
func (p *pen) setDash(dash []float64) {
	scaled := make([]float64, len(dash))
	for i, d := range dash {
		scaled[i] = d * p.scale
	}
	p.dc.SetDash(scaled...)
}

func (p *pen) fillRect(r geometry.Rect, c color.Color) {
	p.dc.SetColor(c)
	p.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	p.dc.Fill()
}

func (p *pen) strokeRect(r geometry.Rect, c color.Color, dash []float64) {
	p.setDash(dash)
	p.dc.SetColor(c)
	p.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	p.dc.Stroke()
}

// polyline strokes an open path through pts.
func (p *pen) polyline(pts []geometry.Point, c color.Color, dash []float64) {
	if len(pts) < 2 {
		return
	}
	p.setDash(dash)
	p.dc.SetColor(c)
	p.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.dc.LineTo(q.X, q.Y)
	}
	p.dc.Stroke()
}

func (p *pen) line(a, b geometry.Point, c color.Color, dash []float64) {
	p.polyline([]geometry.Point{a, b}, c, dash)
}

func (p *pen) polygon(pts []geometry.Point) {
	p.dc.NewSubPath()
	p.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.dc.LineTo(q.X, q.Y)
	}
	p.dc.ClosePath()
}

func (p *pen) fillPolygon(pts []geometry.Point, c color.Color) {
	p.dc.SetColor(c)
	p.polygon(pts)
	p.dc.Fill()
}

func (p *pen) strokePolygon(pts []geometry.Point, c color.Color) {
	p.setDash(nil)
	p.dc.SetColor(c)
	p.polygon(pts)
	p.dc.Stroke()
}

func (p *pen) fillCircle(center geometry.Point, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	p.dc.SetColor(c)
	p.dc.DrawCircle(center.X, center.Y, r)
	p.dc.Fill()
}

func (p *pen) text(x, baseline float64, s string, c color.Color) {
	p.dc.SetColor(c)
	p.dc.DrawString(s, x, baseline)
}

func (p *pen) textCentered(center geometry.Point, s string, c color.Color) {
	p.dc.SetColor(c)
	p.dc.DrawStringAnchored(s, center.X, center.Y, 0.5, 0.35)
}

func (c *Canvas) drawNode(p *pen, r geometry.Rect, e model.Element, ok bool) {
	ir := p.t.ApplyRect(r)
	if !ok {
		p.fillRect(ir, colorMissingBg)
		p.strokeRect(ir, colorMissing, []float64{5, 5})
		p.textCentered(ir.Center(), diagram.MissingName, colorMissing)
		return
	}

	switch e.Type {
	case model.TypeStart:
		p.fillCircle(ir.Center(), math.Min(ir.Width, ir.Height)/2, colorInk)
		return
	case model.TypeEnd:
		rad := math.Min(ir.Width, ir.Height) / 2
		p.fillCircle(ir.Center(), rad, colorInk)
		p.fillCircle(ir.Center(), rad-2*p.scale, colorWhite)
		p.fillCircle(ir.Center(), rad-4*p.scale, colorInk)
		return
	case model.TypeFork, model.TypeJoin:
		p.fillRect(ir, colorInk)
		return
	case model.TypeDecision:
		m := ir.Center()
		diamond := []geometry.Point{{X: m.X, Y: ir.Y}, {X: ir.Right(), Y: m.Y}, {X: m.X, Y: ir.Bottom()}, {X: ir.X, Y: m.Y}}
		p.fillPolygon(diamond, fills[model.TypeDecision])
		p.strokePolygon(diamond, colorBorder)
		return
	}

	p.fillRect(ir, fills[e.Type])
	p.strokeRect(ir, colorBorder, nil)

	lh := float64(p.face.Metrics().Height.Ceil())
	ascent := float64(p.face.Metrics().Ascent.Ceil())
	x := ir.X + padX*p.scale
	y := ir.Y + padY*p.scale + ascent

	lines := nodeLines(e, true)
	for i, l := range lines {
		if i == 2 {
			// Rule between the header (stereotype, name) and the description.
			y += sectionGap * p.scale
			sep := y - ascent - sectionGap*p.scale/2
			p.line(geometry.Point{X: ir.X, Y: sep}, geometry.Point{X: ir.Right(), Y: sep}, colorChrome, nil)
		}
		p.text(x, y, l.text, l.color)
		y += lh
	}
}

func (c *Canvas) drawConnection(p *pen, conn diagram.Connection, rects map[string]geometry.Rect, keep capture.Filter) {
	src, ok := rects[conn.Source]
	if !ok {
		return
	}
	dst, ok := rects[conn.Target]
	if !ok {
		return
	}

	d := conn.Style()
	dash := parseDash(d.DashPattern)

	var path []geometry.Point
	if conn.Source == conn.Target {
		path = selfLoop(src)
	} else {
		a, b := src.Center(), dst.Center()
		path = []geometry.Point{clip(src, b, a), clip(dst, a, b)}
	}
	for i := range path {
		path[i] = p.pt(path[i])
	}

	if keep(capture.ClassEdge) {
		p.polyline(path, colorEdge, dash)
		n := len(path)
		drawMarker(p, d.EndMarker, path[n-2], path[n-1])
		drawMarker(p, d.StartMarker, path[1], path[0])
	}

	kind := conn.Kind()
	if keep(capture.ClassLabel) && conn.Label != "" && !kind.IsStructural() {
		mid := midpoint(path)
		w, _ := p.dc.MeasureString(conn.Label)
		h := p.dc.FontHeight()
		p.fillRect(geometry.Rect{X: mid.X - w/2 - 2*p.scale, Y: mid.Y - h/2, Width: w + 4*p.scale, Height: h}, colorBackground)
		p.textCentered(mid, conn.Label, colorMuted)
	}
}

func parseDash(pattern string) []float64 {
	if pattern == "" {
		return nil
	}
	var out []float64
	for _, f := range strings.Split(pattern, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || v <= 0 {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// clip returns the point where the segment from inside (r's center) towards
// outside leaves r.
func clip(r geometry.Rect, outside, inside geometry.Point) geometry.Point {
	dx, dy := outside.X-inside.X, outside.Y-inside.Y
	if dx == 0 && dy == 0 {
		return inside
	}
	tx, ty := math.Inf(1), math.Inf(1)
	if dx != 0 {
		tx = (r.Width / 2) / math.Abs(dx)
	}
	if dy != 0 {
		ty = (r.Height / 2) / math.Abs(dy)
	}
	t := math.Min(math.Min(tx, ty), 1)
	return geometry.Point{X: inside.X + dx*t, Y: inside.Y + dy*t}
}

func selfLoop(r geometry.Rect) []geometry.Point {
	const reach = 30
	top, bottom := r.Y+r.Height*0.3, r.Y+r.Height*0.7
	return []geometry.Point{
		{X: r.Right(), Y: top},
		{X: r.Right() + reach, Y: top},
		{X: r.Right() + reach, Y: bottom},
		{X: r.Right(), Y: bottom},
	}
}

func midpoint(path []geometry.Point) geometry.Point {
	if len(path) == 2 {
		return geometry.Point{X: (path[0].X + path[1].X) / 2, Y: (path[0].Y + path[1].Y) / 2}
	}
	return path[len(path)/2]
}

// drawMarker draws m at tip, oriented along from -> tip.
func drawMarker(p *pen, m style.Marker, from, tip geometry.Point) {
	if m == style.MarkerNone {
		return
	}
	dx, dy := tip.X-from.X, tip.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	nx, ny := dx/dist, dy/dist
	length, width := 10*p.scale, 5*p.scale

	at := func(back, side float64) geometry.Point {
		return geometry.Point{X: tip.X - nx*back + ny*side, Y: tip.Y - ny*back - nx*side}
	}

	switch m {
	case style.MarkerArrow:
		p.fillPolygon([]geometry.Point{tip, at(length, width), at(length, -width)}, colorEdge)
	case style.MarkerTriangleHollow:
		tri := []geometry.Point{tip, at(length*1.2, width*1.4), at(length*1.2, -width*1.4)}
		p.fillPolygon(tri, colorBackground)
		p.strokePolygon(tri, colorEdge)
	case style.MarkerDiamondFilled, style.MarkerDiamondOpen:
		diamond := []geometry.Point{tip, at(length, width), at(2*length, 0), at(length, -width)}
		if m == style.MarkerDiamondFilled {
			p.fillPolygon(diamond, colorEdge)
		} else {
			p.fillPolygon(diamond, colorBackground)
			p.strokePolygon(diamond, colorEdge)
		}
	}
}

const (
	minimapWidth  = 120
	minimapHeight = 80
	chromeMargin  = 10
)

func (c *Canvas) drawMinimap(p *pen, rects map[string]geometry.Rect) {
	w, h := float64(p.dc.Width()), float64(p.dc.Height())
	s := p.scale
	frame := geometry.Rect{
		X:      w - (minimapWidth+chromeMargin)*s,
		Y:      h - (minimapHeight+chromeMargin)*s,
		Width:  minimapWidth * s,
		Height: minimapHeight * s,
	}
	p.fillRect(frame, colorWhite)
	p.strokeRect(frame, colorChrome, nil)

	var all []geometry.Box
	for _, r := range rects {
		all = append(all, geometry.Box{Origin: geometry.Point{X: r.X, Y: r.Y}, Measured: geometry.Size{Width: r.Width, Height: r.Height}})
	}
	content := geometry.BoundingBox(all)
	if content.IsEmpty() {
		return
	}
	k := math.Min(frame.Width/content.Width, frame.Height/content.Height)
	for _, r := range rects {
		p.fillRect(geometry.Rect{
			X:      frame.X + (r.X-content.X)*k,
			Y:      frame.Y + (r.Y-content.Y)*k,
			Width:  math.Max(r.Width*k, 1),
			Height: math.Max(r.Height*k, 1),
		}, colorMuted)
	}
}

func drawControls(p *pen) {
	h := float64(p.dc.Height())
	s := p.scale
	size := 20 * s
	x := chromeMargin * s
	for i, glyph := range []string{"+", "-", "[]"} {
		y := h - chromeMargin*s - float64(3-i)*(size+2*s)
		r := geometry.Rect{X: x, Y: y, Width: size, Height: size}
		p.fillRect(r, colorWhite)
		p.strokeRect(r, colorChrome, nil)
		p.textCentered(r.Center(), glyph, colorInk)
	}
}
