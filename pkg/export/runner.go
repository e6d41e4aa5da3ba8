package export

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sysmlite/pkg/cache"
	"github.com/matzehuels/sysmlite/pkg/capture"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
	"github.com/matzehuels/sysmlite/pkg/observability"
	"github.com/matzehuels/sysmlite/pkg/render/mermaid"
	"github.com/matzehuels/sysmlite/pkg/render/nodelink"
	"github.com/matzehuels/sysmlite/pkg/render/raster"
)

// Runner renders snapshots with caching.
//
// The Runner holds no per-export state, so several goroutines may share one
// Runner as long as each passes its own snapshot.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of an export.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// SnapshotHash is the content hash of the snapshot's JSON encoding.
	SnapshotHash string

	// CacheHits counts artifacts served from the cache.
	CacheHits int

	// Duration is the wall time of the whole export.
	Duration time.Duration
}

// Export renders every format in opts.Formats. Duplicate formats are
// rendered once.
func (r *Runner) Export(ctx context.Context, snap diagram.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	data, err := diagramio.Marshal(snap)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "serialize snapshot")
	}
	result := &Result{
		Artifacts:    make(map[string][]byte, len(opts.Formats)),
		SnapshotHash: cache.Hash(data),
	}

	for _, format := range opts.Formats {
		if _, done := result.Artifacts[format]; done {
			continue
		}
		out, hit, err := r.ExportFormatWithCacheInfo(ctx, snap, result.SnapshotHash, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = out
		if hit {
			result.CacheHits++
		}
	}
	result.Duration = time.Since(start)

	r.Logger.Info("exported diagram",
		"formats", opts.Formats,
		"placements", len(snap.Placements),
		"cache_hits", result.CacheHits,
		"duration", result.Duration)

	return result, nil
}

// ExportFormatWithCacheInfo renders one format and reports whether it came
// from the cache. snapshotHash must be the Hash of the snapshot's JSON
// encoding; an empty hash disables caching.
func (r *Runner) ExportFormatWithCacheInfo(ctx context.Context, snap diagram.Snapshot, snapshotHash, format string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	useCache := Cacheable(format) && snapshotHash != ""
	key := ""
	if useCache {
		key = r.Keyer.ArtifactKey(snapshotHash, opts.ArtifactKeyOpts(format))
	}

	if useCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, format)
			opts.Logger.Debug("artifact cache hit", "format", format)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, format)
	}

	out, err := Render(ctx, snap, format, opts)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if err := r.Cache.Set(ctx, key, out, TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, format, len(out))
		}
	}
	return out, false, nil
}

// ExportFormat is a convenience wrapper that hashes the snapshot, calls
// ExportFormatWithCacheInfo and discards the cache hit info.
func (r *Runner) ExportFormat(ctx context.Context, snap diagram.Snapshot, format string, opts Options) ([]byte, error) {
	data, err := diagramio.Marshal(snap)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "serialize snapshot")
	}
	out, _, err := r.ExportFormatWithCacheInfo(ctx, snap, cache.Hash(data), format, opts)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Render produces one artifact without touching any cache. opts must already
// carry defaults; zero values fall back to package defaults.
func Render(ctx context.Context, snap diagram.Snapshot, format string, opts Options) (out []byte, err error) {
	hooks := observability.Export()
	hooks.OnExportStart(ctx, format, len(snap.Placements))
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, format, len(out), time.Since(start), err) }()

	switch format {
	case FormatJSON:
		out, err = diagramio.Marshal(snap)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeExport, err, "serialize snapshot")
		}
		return out, nil
	case FormatMermaid:
		return []byte(mermaid.Compile(snap)), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(snap, nodelinkOptions(opts))), nil
	case FormatSVG:
		nl := nodelinkOptions(opts)
		out, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(snap, nl), nl)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeExport, err, "render svg")
		}
		return out, nil
	case FormatPNG:
		if opts.Engine == EngineGraphviz {
			nl := nodelinkOptions(opts)
			out, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(snap, nl), nl)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeExport, err, "render png")
			}
			return out, nil
		}
		return capturePNG(ctx, snap, opts)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format %q", format)
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Pinned: opts.Pinned, Detailed: opts.Detailed}
}

func capturePNG(ctx context.Context, snap diagram.Snapshot, opts Options) ([]byte, error) {
	canvas, err := raster.New(snap, raster.WithMinimap(opts.Chrome), raster.WithControls(opts.Chrome))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "prepare canvas")
	}
	filter := capture.ExcludeChrome
	if opts.Chrome {
		filter = capture.All
	}
	return capture.PNG(ctx, canvas, snap.Placements, capture.Options{
		Padding: opts.Padding,
		Scale:   opts.Scale,
		Filter:  filter,
	})
}

// WriteFiles writes every artifact of res to dir as base+extension and
// returns the written paths sorted by format.
func WriteFiles(res *Result, dir, base string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := errs.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := errs.ValidatePath(base); err != nil {
		return nil, err
	}
	if filepath.Base(base) != base {
		return nil, errs.New(errs.ErrCodeInvalidPath, "output name %q must not contain a directory", base)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create output directory")
	}
	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		ext := Extension(f)
		if ext == "" {
			ext = "." + f
		}
		path := filepath.Join(dir, base+ext)
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return paths, errs.Wrap(errs.ErrCodeExport, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
