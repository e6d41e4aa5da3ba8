// Package render groups the output formats for diagram snapshots.
//
// # Overview
//
// Each subpackage turns a [diagram.Snapshot] into one kind of artifact:
//
//   - [mermaid]: class-diagram text for external renderers
//   - [nodelink]: Graphviz DOT, SVG and PNG
//   - [raster]: an in-process drawing surface used for canvas-faithful PNG
//     captures
//
// All compilers are pure functions of the snapshot; none of them mutate it
// or consult the store.
//
//	text := mermaid.Compile(snap)
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{})
//
// [diagram.Snapshot]: github.com/matzehuels/sysmlite/pkg/diagram.Snapshot
// [mermaid]: github.com/matzehuels/sysmlite/pkg/render/mermaid
// [nodelink]: github.com/matzehuels/sysmlite/pkg/render/nodelink
// [raster]: github.com/matzehuels/sysmlite/pkg/render/raster
package render
