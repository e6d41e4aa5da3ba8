// Package nodelink renders diagram snapshots as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a snapshot to DOT, then render it:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{})
//	png, err := nodelink.RenderPNG(ctx, dot, nodelink.Options{})
//
// # Shapes
//
// Each element type maps to a Graphviz shape: blocks are boxes, requirements
// notes, use cases ellipses, packages tabs, decisions diamonds, start and
// end nodes filled circles, fork and join nodes black bars. Placements whose
// element is missing are drawn dashed with the label "Missing Data".
//
// # Edges
//
// Edge attributes come from [style.Resolve]: dashed kinds get style=dashed,
// line-end markers map to arrowhead/arrowtail shapes, and labels that are not
// expressed by the line ends alone are printed on the edge. Connections with
// unknown endpoints are skipped.
//
// # Layout
//
// By default Graphviz computes the layout (dot, top to bottom). With
// Options.Pinned the canvas positions are kept and rendering switches to the
// neato engine.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
//
// [style.Resolve]: github.com/matzehuels/sysmlite/pkg/style.Resolve
package nodelink
