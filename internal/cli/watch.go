package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/config"
	"github.com/matzehuels/sysmlite/pkg/watch"
)

// watchCommand creates the "watch" command.
func (c *CLI) watchCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export the diagram whenever its file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			rebuild := func(ctx context.Context) error {
				store, err := c.loadStore()
				if err != nil {
					return err
				}
				paths, res, err := c.runExport(ctx, runner, store.Snapshot(), name, false)
				if err != nil {
					return err
				}
				for _, p := range paths {
					printFile(p)
				}
				logger.Debug("rebuilt", "artifacts", len(res.Artifacts), "cache_hits", res.CacheHits)
				return nil
			}
			if err := rebuild(ctx); err != nil {
				return err
			}

			w, err := watch.New(c.Config.File, c.Config.Debounce, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			printInfo("Watching %s (ctrl+c to stop)", w.Path())
			if err := w.Run(ctx, rebuild); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	addExportFlags(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "output file name without extension (default: diagram file name)")
	cmd.Flags().Duration("debounce", config.Default().Debounce, "delay before re-exporting after a change")
	return cmd
}
