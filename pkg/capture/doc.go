// Package capture exports a rendered diagram as a PNG image.
//
// The rendering itself is done by a [Surface], the collaborator that owns
// the visual representation of the canvas. Capture proceeds in four steps:
//
//  1. wait until the surface reports its layout as stable
//  2. compute the bounding box of all placements, using the sizes the
//     surface measured (falling back to size hints, then to 150x100)
//  3. pad the box and derive a [geometry.Frame] whose image exactly covers it
//  4. ask the surface to draw that frame, keeping only items accepted by the
//     filter, and encode the result
//
// The default filter, [ExcludeChrome], drops auxiliary overlays such as the
// minimap and zoom controls, which the surface tags with [ClassMinimap] and
// [ClassControls].
//
// Any failure is reported once as an errors.ErrCodeExport error; there is no
// retry. The stable wait ends early only if the context is cancelled.
//
// [geometry.Frame]: github.com/matzehuels/sysmlite/pkg/geometry.Frame
package capture
