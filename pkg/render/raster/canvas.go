package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/sysmlite/pkg/capture"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
)

const (
	defaultFontSize    = 12
	defaultSupersample = 2

	padX       = 12
	padY       = 8
	sectionGap = 6
	minHeight  = 60
)

// NoDescription is drawn in place of an empty description.
const NoDescription = "No description"

// Option configures a Canvas.
type Option func(*Canvas)

// WithMinimap draws a minimap overlay in the bottom-right corner.
func WithMinimap(on bool) Option { return func(c *Canvas) { c.minimap = on } }

// WithControls draws zoom controls in the bottom-left corner.
func WithControls(on bool) Option { return func(c *Canvas) { c.controls = on } }

// WithSupersample sets the supersampling factor (1 disables it).
func WithSupersample(n int) Option {
	return func(c *Canvas) {
		if n >= 1 {
			c.ss = n
		}
	}
}

// WithFontSize sets the base font size in points.
func WithFontSize(pt float64) Option {
	return func(c *Canvas) {
		if pt > 0 {
			c.fontSize = pt
		}
	}
}

// Canvas renders one snapshot. It implements [capture.Surface].
type Canvas struct {
	snap     diagram.Snapshot
	font     *opentype.Font
	fontSize float64
	minimap  bool
	controls bool
	ss       int

	mu     sync.RWMutex
	sizes  map[string]geometry.Size
	stable chan struct{}
}

var _ capture.Surface = (*Canvas)(nil)

// New creates a canvas for a copy of snap and starts laying it out.
func New(snap diagram.Snapshot, opts ...Option) (*Canvas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	c := &Canvas{
		snap:     snap.Clone(),
		font:     f,
		fontSize: defaultFontSize,
		ss:       defaultSupersample,
		sizes:    make(map[string]geometry.Size),
		stable:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.layout()
	return c, nil
}

// Stable is closed once every placement has been measured.
func (c *Canvas) Stable() <-chan struct{} { return c.stable }

// Measure returns the laid-out size of a placement.
func (c *Canvas) Measure(id string) (geometry.Size, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sz, ok := c.sizes[id]
	return sz, ok
}

func (c *Canvas) face(scale float64) (font.Face, error) {
	return opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    c.fontSize * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (c *Canvas) layout() {
	defer close(c.stable)

	face, err := c.face(1)
	if err != nil {
		return
	}
	defer face.Close()

	sizes := make(map[string]geometry.Size, len(c.snap.Placements))
	for _, p := range c.snap.Placements {
		sizes[p.ID] = c.measure(face, p)
	}

	c.mu.Lock()
	c.sizes = sizes
	c.mu.Unlock()
}

func (c *Canvas) measure(face font.Face, p diagram.Placement) geometry.Size {
	e, ok := c.snap.Elements[p.ElementID]
	if ok && e.Type.IsControlFlow() {
		return e.Type.DefaultSize()
	}

	base := p.Hint()
	if base.IsZero() {
		base = geometry.DefaultSize
	}

	lines := nodeLines(e, ok)
	var w int
	for _, l := range lines {
		w = max(w, font.MeasureString(face, l.text).Ceil())
	}
	lh := float64(face.Metrics().Height.Ceil())
	h := 2*padY + float64(len(lines))*lh + sectionGap

	return geometry.Size{
		Width:  math.Max(base.Width, float64(w+2*padX)),
		Height: math.Max(minHeight, h),
	}
}

type textLine struct {
	text  string
	color color.Color
}

func nodeLines(e model.Element, ok bool) []textLine {
	if !ok {
		return []textLine{{diagram.MissingName, colorMissing}}
	}
	lines := []textLine{
		{"«" + e.Type.Stereotype() + "»", colorMuted},
		{e.Name, colorInk},
	}
	desc := e.Lines()
	if len(desc) == 0 {
		return append(lines, textLine{NoDescription, colorMuted})
	}
	for _, d := range desc {
		lines = append(lines, textLine{d, colorInk})
	}
	return lines
}

// Draw renders the frame, keeping only items accepted by keep.
func (c *Canvas) Draw(ctx context.Context, f geometry.Frame, keep capture.Filter) (image.Image, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("empty frame %dx%d", f.Width, f.Height)
	}
	if keep == nil {
		keep = capture.All
	}

	n := c.ss
	if f.Width*f.Height*n*n > capture.MaxPixels {
		n = 1
	}
	ss := float64(n)
	face, err := c.face(f.Transform.Scale * ss)
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	big := image.NewRGBA(image.Rect(0, 0, f.Width*n, f.Height*n))
	pn := newPen(big, face, geometry.Transform{
		TranslateX: f.Transform.TranslateX,
		TranslateY: f.Transform.TranslateY,
		Scale:      f.Transform.Scale * ss,
	})
	pn.dc.SetColor(colorBackground)
	pn.dc.Clear()

	rects := c.rects()
	if keep(capture.ClassEdge) || keep(capture.ClassLabel) {
		for _, conn := range c.snap.Connections {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.drawConnection(pn, conn, rects, keep)
		}
	}
	if keep(capture.ClassNode) {
		for _, p := range c.snap.Placements {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e, ok := c.snap.Elements[p.ElementID]
			c.drawNode(pn, rects[p.ID], e, ok)
		}
	}
	if keep(capture.ClassMinimap) && c.minimap {
		c.drawMinimap(pn, rects)
	}
	if keep(capture.ClassControls) && c.controls {
		drawControls(pn)
	}

	if n == 1 {
		return big, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)
	return out, nil
}

func (c *Canvas) rects() map[string]geometry.Rect {
	out := make(map[string]geometry.Rect, len(c.snap.Placements))
	for _, p := range c.snap.Placements {
		sz, _ := c.Measure(p.ID)
		out[p.ID] = p.Box(sz).Rect()
	}
	return out
}
