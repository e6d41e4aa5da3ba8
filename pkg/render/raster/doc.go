// Package raster draws diagram snapshots into images without external tools.
//
// A [Canvas] is the in-process rendering surface used for PNG captures. It
// lays out every placement in the background (measuring text with the Go
// Regular font), signals completion through Stable, and draws any
// [geometry.Frame] on request:
//
//	c, err := raster.New(snap, raster.WithMinimap(true))
//	png, err := capture.PNG(ctx, c, snap.Placements, capture.Options{})
//
// Structural elements are drawn as boxes with a «stereotype» line, the name
// and the description lines ("No description" when empty). Control-flow
// elements use fixed shapes: start and end circles, a decision diamond and
// black fork/join bars. Placements whose element is missing are drawn with a
// dashed red outline and the text "Missing Data".
//
// Connections are drawn between box borders with the line pattern and end
// markers given by the style resolver. The optional minimap and zoom
// controls are tagged as chrome so captures can exclude them.
//
// Paths, fills and text are drawn with fogleman/gg. Drawing is supersampled
// and scaled down with Catmull-Rom interpolation; frames too large to
// supersample within [capture.MaxPixels] are drawn at 1x.
//
// [geometry.Frame]: github.com/matzehuels/sysmlite/pkg/geometry.Frame
package raster
