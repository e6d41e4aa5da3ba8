// Package pkg provides the core libraries for sysmlite diagram editing.
//
// # Overview
//
// sysmlite models SysML-lite diagrams: typed elements (blocks, requirements,
// actors, activities and control-flow nodes) placed on a canvas and joined by
// labeled relationships whose label decides how they are drawn. The pkg
// directory is organized into three areas:
//
//  1. Model - [model], [style], [geometry] and [diagram]
//  2. Output - [io], [render/mermaid], [render/nodelink], [render/raster],
//     [capture] and [export]
//  3. Infrastructure - [cache], [config], [watch], [observability],
//     [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow through sysmlite:
//
//	diagram.json
//	     ↓
//	[io] package (decode and validate a snapshot)
//	     ↓
//	[diagram] package (store: edit placements, connections, selection)
//	     ↓
//	[export] package (cache lookup, then render)
//	     ↓
//	JSON / Mermaid / DOT / SVG / PNG
//
// # Quick Start
//
//	store := diagram.NewStore()
//	_ = store.Load(diagram.Seed())
//
//	_, p := store.AddElement(model.TypeBlock)
//	conn, _ := store.Connect(p.ID, "node-2")
//	store.UpdateConnectionLabel(conn.ID, "satisfy")
//
//	runner := export.NewRunner(cache.NewMemoryCache(0), nil, nil)
//	res, err := runner.Export(ctx, store.Snapshot(), export.Options{
//	    Formats: []string{export.FormatMermaid, export.FormatPNG},
//	})
//
// # Main Packages
//
// [model] - Element taxonomy, default names and sizes, and the element table.
//
// [style] - Relationship kinds and their total mapping to line and marker
// styles.
//
// [geometry] - Points, sizes, boxes and the bounding box of a drawing.
//
// [diagram] - The store that owns placements, connections, selection and
// measured sizes, plus change sets for incremental edits.
//
// [io] - JSON import and export of snapshots with structural validation.
//
// [render/mermaid] - Mermaid class-diagram compiler.
//
// [render/nodelink] - Graphviz DOT generation and SVG/PNG rendering.
//
// [render/raster] - In-process canvas for PNG captures.
//
// [capture] - Fits a drawing into an image and encodes it as PNG.
//
// [export] - Multi-format export runner with artifact caching.
//
// [cache] - Null, memory and file caches with content-addressed keys.
//
// [config] - Layered configuration (defaults, TOML, environment, flags).
//
// [watch] - Debounced file watching.
//
// [observability] - Hooks for export, cache, import and HTTP events.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/diagram/...            # Specific package
//	go test -run Example                 # Examples only
//
// [model]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/model
// [style]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/style
// [geometry]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/geometry
// [diagram]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/diagram
// [io]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/io
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/render/mermaid
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/render/nodelink
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/render/raster
// [capture]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/capture
// [export]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/export
// [cache]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/config
// [watch]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/watch
// [observability]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sysmlite/pkg/buildinfo
package pkg
