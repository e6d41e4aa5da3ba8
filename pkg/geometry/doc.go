// Package geometry provides the 2D primitives used to place diagram elements
// and to compute export regions.
//
// # Bounding Boxes
//
// [BoundingBox] computes the minimal axis-aligned rectangle covering a set of
// [Box] values. Each box contributes its origin offset by its effective size:
// the size measured by the rendering surface if known, otherwise the declared
// size hint, otherwise [DefaultSize]:
//
//	r := geometry.BoundingBox([]geometry.Box{
//	    {Origin: geometry.Point{X: 10, Y: 20}, Hint: geometry.Size{Width: 150, Height: 100}},
//	})
//	// r == Rect{X: 10, Y: 20, Width: 150, Height: 100}
//
// An empty input yields the zero [Rect].
//
// # Frames
//
// [FrameFor] pads a region and derives the pixel dimensions and the
// translate/scale [Transform] that make the padded region exactly fill a
// captured image. The capture pipeline in package capture uses it to
// parameterize the rendering surface.
package geometry
