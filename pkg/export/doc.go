// Package export turns a diagram snapshot into output artifacts.
//
// A [Runner] renders any combination of formats in one call and caches the
// expensive ones (SVG and PNG) by the content hash of the snapshot, so the
// CLI, the watcher and the HTTP server share the same behavior:
//
//	runner := export.NewRunner(cache, nil, logger)
//	res, err := runner.Export(ctx, store.Snapshot(), export.Options{
//	    Formats: []string{export.FormatPNG, export.FormatMermaid},
//	})
//	if err != nil {
//	    return err
//	}
//	png := res.Artifacts[export.FormatPNG]
//
// # Formats
//
//   - json: the snapshot envelope (see package io)
//   - mmd: Mermaid class-diagram text
//   - dot: Graphviz source
//   - svg: Graphviz-rendered SVG
//   - png: a raster capture of the canvas, or a Graphviz PNG when
//     Engine is "graphviz"
//
// Every rendering failure is reported once as an ErrCodeExport error.
// Unknown formats are ErrCodeUnsupported.
package export
