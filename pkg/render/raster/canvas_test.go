package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/matzehuels/sysmlite/pkg/capture"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	"github.com/matzehuels/sysmlite/pkg/model"
)

func waitStable(t *testing.T, c *Canvas) {
	t.Helper()
	select {
	case <-c.Stable():
	case <-time.After(5 * time.Second):
		t.Fatal("canvas never became stable")
	}
}

func TestMeasure(t *testing.T) {
	snap := diagram.Seed()
	snap.Elements["elem-3"] = model.Element{ID: "elem-3", Type: model.TypeFork}
	snap.Placements = append(snap.Placements,
		diagram.Placement{ID: "node-3", ElementID: "elem-3", Position: geometry.Point{X: 0, Y: 0}},
		diagram.Placement{ID: "node-4", ElementID: "elem-gone"},
	)

	c, err := New(snap)
	if err != nil {
		t.Fatal(err)
	}
	waitStable(t, c)

	sz, ok := c.Measure("node-1")
	if !ok || sz.Width < 150 || sz.Height < minHeight {
		t.Errorf("Measure(node-1) = %v, %v", sz, ok)
	}
	if sz, _ := c.Measure("node-3"); sz != model.TypeFork.DefaultSize() {
		t.Errorf("Measure(fork) = %v, want %v", sz, model.TypeFork.DefaultSize())
	}
	if _, ok := c.Measure("node-4"); !ok {
		t.Error("missing-element placement not measured")
	}
	if _, ok := c.Measure("node-404"); ok {
		t.Error("unknown placement measured")
	}
}

func TestMeasureGrowsWithText(t *testing.T) {
	long := diagram.Seed()
	long.Elements["elem-1"] = model.Element{
		ID:          "elem-1",
		Type:        model.TypeBlock,
		Name:        "A block with a considerably longer name than fits in the default width",
		Description: "a\nb\nc\nd\ne\nf\ng",
	}

	short, _ := New(diagram.Seed())
	grown, _ := New(long)
	waitStable(t, short)
	waitStable(t, grown)

	a, _ := short.Measure("node-1")
	b, _ := grown.Measure("node-1")
	if b.Width <= a.Width || b.Height <= a.Height {
		t.Errorf("long content %v should exceed short content %v", b, a)
	}
}

func TestDrawFrameSize(t *testing.T) {
	for _, ss := range []int{1, 2} {
		c, err := New(diagram.Seed(), WithSupersample(ss))
		if err != nil {
			t.Fatal(err)
		}
		waitStable(t, c)

		f := geometry.FrameFor(geometry.Rect{X: 100, Y: 100, Width: 450, Height: 100}, 20, 1.5)
		img, err := c.Draw(context.Background(), f, capture.ExcludeChrome)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if b := img.Bounds(); b.Dx() != f.Width || b.Dy() != f.Height {
			t.Errorf("ss=%d: size = %dx%d, want %dx%d", ss, b.Dx(), b.Dy(), f.Width, f.Height)
		}
	}
}

func TestDrawEmptyFrame(t *testing.T) {
	c, _ := New(diagram.Seed())
	waitStable(t, c)
	if _, err := c.Draw(context.Background(), geometry.Frame{}, nil); err == nil {
		t.Error("Draw of empty frame succeeded")
	}
}

func TestChromeExcluded(t *testing.T) {
	c, err := New(diagram.Seed(), WithMinimap(true), WithControls(true), WithSupersample(1))
	if err != nil {
		t.Fatal(err)
	}
	waitStable(t, c)

	f := geometry.FrameFor(geometry.Rect{X: 0, Y: 0, Width: 600, Height: 300}, 0, 1)
	onlyChrome := func(cl capture.Class) bool { return cl.IsChrome() }

	with, err := c.Draw(context.Background(), f, onlyChrome)
	if err != nil {
		t.Fatal(err)
	}
	without, err := c.Draw(context.Background(), f, func(capture.Class) bool { return false })
	if err != nil {
		t.Fatal(err)
	}

	// Bottom-right corner holds the minimap.
	corner := image.Point{X: f.Width - chromeMargin - minimapWidth/2, Y: f.Height - chromeMargin - minimapHeight/2}
	if with.At(corner.X, corner.Y) == without.At(corner.X, corner.Y) {
		t.Error("minimap not drawn when chrome is kept")
	}
	if without.At(corner.X, corner.Y) != colorBackground {
		t.Errorf("empty capture pixel = %v, want background", without.At(corner.X, corner.Y))
	}
}

func TestCapturePNG(t *testing.T) {
	snap := diagram.Seed()
	snap.Placements = append(snap.Placements, diagram.Placement{ID: "node-9", ElementID: "gone", Position: geometry.Point{X: 100, Y: 300}})
	snap.Connections = append(snap.Connections,
		diagram.Connection{ID: "edge-2", Source: "node-1", Target: "node-1", Label: "refine"},
		diagram.Connection{ID: "edge-3", Source: "node-2", Target: "node-9", Label: "Composition"},
	)

	c, err := New(snap, WithMinimap(true))
	if err != nil {
		t.Fatal(err)
	}
	data, err := capture.PNG(context.Background(), c, snap.Placements, capture.Options{Padding: 16})
	if err != nil {
		t.Fatalf("capture.PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	region := capture.Region(snap.Placements, c.Measure)
	want := geometry.FrameFor(region, 16, 1)
	if b := img.Bounds(); b.Dx() != want.Width || b.Dy() != want.Height {
		t.Errorf("image = %dx%d, want %dx%d", b.Dx(), b.Dy(), want.Width, want.Height)
	}
}

func testPen(t *testing.T, w, h int) (*pen, *image.RGBA) {
	t.Helper()
	c, err := New(diagram.Snapshot{})
	if err != nil {
		t.Fatal(err)
	}
	face, err := c.face(1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { face.Close() })
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p := newPen(img, face, geometry.Transform{Scale: 1})
	p.dc.SetColor(colorBackground)
	p.dc.Clear()
	return p, img
}

func TestPenDashedLine(t *testing.T) {
	p, img := testPen(t, 100, 10)
	p.line(geometry.Point{X: 0, Y: 5.5}, geometry.Point{X: 100, Y: 5.5}, colorInk, []float64{10, 10})

	if img.At(5, 5) == colorBackground {
		t.Error("first dash not drawn")
	}
	if img.At(15, 5) != colorBackground {
		t.Errorf("gap pixel = %v, want background", img.At(15, 5))
	}
	if img.At(25, 5) == colorBackground {
		t.Error("second dash not drawn")
	}

	p.line(geometry.Point{X: 0, Y: 2.5}, geometry.Point{X: 100, Y: 2.5}, colorInk, nil)
	if img.At(15, 2) == colorBackground {
		t.Error("solid line left a gap after a dashed one")
	}
}

func TestPenFills(t *testing.T) {
	p, img := testPen(t, 60, 60)
	p.fillPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}, colorEdge)
	p.fillCircle(geometry.Point{X: 45, Y: 45}, 10, colorMissing)

	if img.At(5, 5) != colorEdge {
		t.Errorf("polygon interior = %v", img.At(5, 5))
	}
	if img.At(25, 25) != colorBackground {
		t.Errorf("outside polygon = %v", img.At(25, 25))
	}
	if img.At(45, 45) != colorMissing {
		t.Errorf("circle center = %v", img.At(45, 45))
	}
}

func TestParseDash(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"5,5", 2},
		{"4, 2, 1, 2", 4},
		{"x,5", 0},
		{"0,5", 0},
	}
	for _, tt := range tests {
		if got := parseDash(tt.in); len(got) != tt.want {
			t.Errorf("parseDash(%q) = %v, want %d values", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	r := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	got := clip(r, geometry.Point{X: 250, Y: 25}, r.Center())
	if want := (geometry.Point{X: 100, Y: 25}); got != want {
		t.Errorf("clip = %v, want %v", got, want)
	}
	got = clip(r, geometry.Point{X: 50, Y: -100}, r.Center())
	if want := (geometry.Point{X: 50, Y: 0}); got != want {
		t.Errorf("clip = %v, want %v", got, want)
	}
}
