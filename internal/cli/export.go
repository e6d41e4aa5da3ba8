package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/sysmlite/pkg/config"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/export"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var name string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the diagram as JSON, Mermaid, DOT, SVG or PNG",
		Long: `Export the diagram file to one or more formats.

PNG is rendered by the built-in rasterizer by default; --engine graphviz lays
the diagram out with Graphviz instead. SVG and PNG artifacts are cached by
diagram content and options.`,
		Example: `  sysmlite export -F mmd,png
  sysmlite export -F svg --engine graphviz --pinned -o out/
  sysmlite export -F png --scale 2 --chrome --refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadStore()
			if err != nil {
				return err
			}
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			snap := store.Snapshot()
			paths, res, err := c.runExport(cmd.Context(), runner, snap, name, refresh)
			if err != nil {
				return err
			}
			printSuccess("Exported %d artifact(s)", len(paths))
			for _, p := range paths {
				printFile(p)
			}
			fmt.Fprintln(stdout, statsLine(len(snap.Placements), len(snap.Connections), len(res.Artifacts), res.CacheHits))
			return nil
		},
	}

	addExportFlags(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "output file name without extension (default: diagram file name)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached artifacts")
	return cmd
}

// addExportFlags registers the export settings. Flag names match config keys.
func addExportFlags(f *pflag.FlagSet) {
	d := config.Default()
	f.StringSliceP("formats", "F", d.Formats, "output formats: "+strings.Join(export.Formats, ", "))
	f.StringP("out", "o", d.Out, "output directory")
	f.Float64("scale", d.Scale, "PNG scale factor")
	f.Float64("padding", d.Padding, "PNG padding around the diagram")
	f.Bool("chrome", d.Chrome, "include minimap and controls in PNG output")
	f.String("engine", d.Engine, "PNG engine: raster or graphviz")
	f.Bool("pinned", d.Pinned, "keep stored positions in Graphviz output")
	f.Bool("detailed", d.Detailed, "include descriptions in Graphviz labels")
}

// runExport renders snap with the configured options and writes the
// artifacts to the output directory.
func (c *CLI) runExport(ctx context.Context, runner *export.Runner, snap diagram.Snapshot, name string, refresh bool) ([]string, *export.Result, error) {
	if name == "" {
		name = baseName(c.Config.File)
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinner(ctx, "Exporting "+strings.Join(c.Config.Formats, ", ")+"...")
	spinner.Start()
	res, err := runner.Export(ctx, snap, c.exportOptions(refresh))
	spinner.Stop()
	if err != nil {
		return nil, nil, err
	}

	paths, err := export.WriteFiles(res, c.Config.Out, name)
	if err != nil {
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Exported %d artifacts", len(paths)))
	return paths, res, nil
}

// baseName strips the directory and extension from path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
