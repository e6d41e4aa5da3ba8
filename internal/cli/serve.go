package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/internal/server"
	"github.com/matzehuels/sysmlite/pkg/cache"
	"github.com/matzehuels/sysmlite/pkg/config"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/export"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var autosave bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram over a local HTTP API",
		Long: `Serve the diagram over HTTP. The API reads and edits the diagram in
memory and renders exports on request. With --autosave every change is
written back to the diagram file.

A missing diagram file starts the server with the sample model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			store, err := c.loadStore()
			if errs.Is(err, errs.ErrCodeFileNotFound) {
				logger.Warn("diagram file not found, starting with sample model", "file", c.Config.File)
				store = diagram.NewStore()
				err = store.Load(diagram.Seed())
			}
			if err != nil {
				return err
			}

			runner := export.NewRunner(cache.NewMemoryCache(0), nil, c.Logger)
			defer runner.Close()

			opts := []server.Option{
				server.WithCORSOrigins(c.Config.CORSOrigins...),
				server.WithExportDefaults(c.exportOptions(false)),
			}
			if autosave {
				opts = append(opts, server.WithAutosave(c.Config.File))
			}
			srv := server.New(store, runner, c.Logger, opts...)

			printInfo("Listening on %s", StyleHighlight.Render("http://"+c.Config.Addr))
			return srv.ListenAndServe(ctx, c.Config.Addr)
		},
	}

	d := config.Default()
	cmd.Flags().String("addr", d.Addr, "listen address")
	cmd.Flags().StringSlice("cors-origins", d.CORSOrigins, "allowed CORS origins")
	addExportFlags(cmd.Flags())
	cmd.Flags().BoolVar(&autosave, "autosave", true, "write changes back to the diagram file")
	return cmd
}
