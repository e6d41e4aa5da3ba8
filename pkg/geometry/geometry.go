package geometry

import "math"

// DefaultSize is the fallback size for a box with neither a measured size
// nor a size hint.
var DefaultSize = Size{Width: 150, Height: 100}

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is unset.
func (s Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Pad grows the rectangle by p on all four sides.
func (r Rect) Pad(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, Width: r.Width + 2*p, Height: r.Height + 2*p}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Box is a positioned item whose extent may come from several sources.
type Box struct {
	Origin   Point
	Measured Size // reported by the rendering surface; zero if unknown
	Hint     Size // declared size hint; zero if unset
}

// Size returns the effective size: measured, then hint, then DefaultSize.
func (b Box) Size() Size {
	if !b.Measured.IsZero() {
		return b.Measured
	}
	if !b.Hint.IsZero() {
		return b.Hint
	}
	return DefaultSize
}

// Rect returns the rectangle the box occupies.
func (b Box) Rect() Rect {
	s := b.Size()
	return Rect{X: b.Origin.X, Y: b.Origin.Y, Width: s.Width, Height: s.Height}
}

// BoundingBox returns the minimal rectangle covering every box.
// It returns the zero Rect for an empty input.
func BoundingBox(boxes []Box) Rect {
	if len(boxes) == 0 {
		return Rect{}
	}
	out := boxes[0].Rect()
	for _, b := range boxes[1:] {
		out = out.Union(b.Rect())
	}
	return out
}

// Transform maps canvas coordinates to image coordinates: translate first,
// then scale.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// Apply maps a canvas point into image space.
func (t Transform) Apply(p Point) Point {
	return Point{X: (p.X + t.TranslateX) * t.Scale, Y: (p.Y + t.TranslateY) * t.Scale}
}

// ApplyRect maps a canvas rectangle into image space.
func (t Transform) ApplyRect(r Rect) Rect {
	o := t.Apply(Point{X: r.X, Y: r.Y})
	return Rect{X: o.X, Y: o.Y, Width: r.Width * t.Scale, Height: r.Height * t.Scale}
}

// Frame describes a capture: the padded canvas region, the output pixel
// dimensions and the transform that makes the region fill the image.
type Frame struct {
	Region    Rect
	Width     int
	Height    int
	Transform Transform
}

// FrameFor pads r by padding and fits it to an image at the given scale.
// A non-positive scale is treated as 1.
func FrameFor(r Rect, padding, scale float64) Frame {
	if scale <= 0 {
		scale = 1
	}
	region := r.Pad(padding)
	return Frame{
		Region: region,
		Width:  int(math.Ceil(region.Width * scale)),
		Height: int(math.Ceil(region.Height * scale)),
		Transform: Transform{
			TranslateX: -region.X,
			TranslateY: -region.Y,
			Scale:      scale,
		},
	}
}
