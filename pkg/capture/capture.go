package capture

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/geometry"
)

// DefaultPadding is the margin added around the content on every side.
const DefaultPadding = 40

// Capture size limits. Frames beyond either are rejected before any pixel
// buffer is allocated.
const (
	MaxDimension = 16384
	MaxPixels    = 64 << 20
)

// Class is the marker a surface attaches to each visual item.
type Class string

const (
	ClassNode     Class = "node"
	ClassEdge     Class = "edge"
	ClassLabel    Class = "label"
	ClassMinimap  Class = "minimap"
	ClassControls Class = "controls"
)

// IsChrome reports whether c marks an auxiliary overlay rather than content.
func (c Class) IsChrome() bool { return c == ClassMinimap || c == ClassControls }

// Filter decides which items are drawn into a capture.
type Filter func(Class) bool

// ExcludeChrome keeps diagram content and drops overlays.
func ExcludeChrome(c Class) bool { return !c.IsChrome() }

// All keeps every item.
func All(Class) bool { return true }

// Surface is the rendering collaborator.
type Surface interface {
	// Stable is closed once the layout has settled and sizes are measured.
	Stable() <-chan struct{}
	// Measure returns the rendered size of a placement.
	Measure(placementID string) (geometry.Size, bool)
	// Draw renders the frame. The image must be Frame.Width x Frame.Height.
	Draw(ctx context.Context, f geometry.Frame, keep Filter) (image.Image, error)
}

// Options configures a capture.
type Options struct {
	Padding float64 // margin on every side; 0 uses DefaultPadding
	Scale   float64 // pixel density; 0 uses 1
	Filter  Filter  // nil uses ExcludeChrome
}

func (o Options) withDefaults() Options {
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Filter == nil {
		o.Filter = ExcludeChrome
	}
	return o
}

// Region returns the bounding box of placements using sizes reported by
// measure.
func Region(placements []diagram.Placement, measure func(id string) (geometry.Size, bool)) geometry.Rect {
	boxes := make([]geometry.Box, len(placements))
	for i, p := range placements {
		var sz geometry.Size
		if measure != nil {
			sz, _ = measure(p.ID)
		}
		boxes[i] = p.Box(sz)
	}
	return geometry.BoundingBox(boxes)
}

// Plan waits for the surface to settle and returns the frame a capture of
// placements would use.
func Plan(ctx context.Context, s Surface, placements []diagram.Placement, opts Options) (geometry.Frame, error) {
	opts = opts.withDefaults()
	select {
	case <-s.Stable():
	case <-ctx.Done():
		return geometry.Frame{}, errs.Wrap(errs.ErrCodeExport, ctx.Err(), "surface did not settle")
	}
	region := Region(placements, s.Measure)
	if err := checkSize(region.Pad(opts.Padding), opts.Scale); err != nil {
		return geometry.Frame{}, err
	}
	return geometry.FrameFor(region, opts.Padding, opts.Scale), nil
}

// checkSize rejects padded regions whose pixel size is not finite or
// exceeds the capture limits.
func checkSize(r geometry.Rect, scale float64) error {
	w, h := math.Ceil(r.Width*scale), math.Ceil(r.Height*scale)
	for _, v := range []float64{r.X, r.Y, w, h} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.New(errs.ErrCodeExport, "capture region is not finite")
		}
	}
	if w > MaxDimension || h > MaxDimension || w*h > MaxPixels {
		return errs.New(errs.ErrCodeExport, "capture %.0fx%.0f exceeds limit of %dx%d and %d pixels", w, h, MaxDimension, MaxDimension, MaxPixels)
	}
	return nil
}

// Image captures placements from the surface as an image.
func Image(ctx context.Context, s Surface, placements []diagram.Placement, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	f, err := Plan(ctx, s, placements, opts)
	if err != nil {
		return nil, err
	}
	img, err := s.Draw(ctx, f, opts.Filter)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "draw capture")
	}
	if b := img.Bounds(); b.Dx() != f.Width || b.Dy() != f.Height {
		return nil, errs.New(errs.ErrCodeExport, "surface drew %dx%d, want %dx%d", b.Dx(), b.Dy(), f.Width, f.Height)
	}
	return img, nil
}

// PNG captures placements from the surface and encodes them as PNG.
func PNG(ctx context.Context, s Surface, placements []diagram.Placement, opts Options) ([]byte, error) {
	img, err := Image(ctx, s, placements, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "encode png")
	}
	return buf.Bytes(), nil
}
