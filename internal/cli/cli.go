package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/buildinfo"
	"github.com/matzehuels/sysmlite/pkg/cache"
	"github.com/matzehuels/sysmlite/pkg/config"
	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/export"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
	"github.com/matzehuels/sysmlite/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sysmlite"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before every command runs.
	Config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (tables, file lists). Logs are not
// affected.
func (c *CLI) SetOutput(w io.Writer) { stdout = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "sysmlite edits SysML-lite diagrams",
		Long:         `sysmlite keeps a SysML-lite diagram in a JSON file and edits, inspects, serves and exports it as Mermaid, Graphviz, SVG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.Verbose {
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Install()
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.String(config.FlagConfig, "", "config file (default ./"+config.FileName+")")
	pf.StringP("file", "f", config.Default().File, "diagram file")
	pf.BoolP("verbose", "v", false, "enable verbose logging")
	pf.Bool("no-cache", false, "disable the artifact cache")
	pf.String("cache-dir", "", "artifact cache directory")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.labelCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an export runner for CLI use. Keys are scoped by
// version so artifacts drawn by an older renderer are not reused.
func (c *CLI) newRunner() (*export.Runner, error) {
	cc, err := c.newCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return export.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.Config.NoCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cache.DefaultDir()
}

// exportOptions builds export options from the loaded config.
func (c *CLI) exportOptions(refresh bool) export.Options {
	cfg := c.Config
	return export.Options{
		Formats:  cfg.Formats,
		Scale:    cfg.Scale,
		Padding:  cfg.Padding,
		Chrome:   cfg.Chrome,
		Engine:   cfg.Engine,
		Pinned:   cfg.Pinned,
		Detailed: cfg.Detailed,
		Refresh:  refresh,
		Logger:   c.Logger,
	}
}

// =============================================================================
// Diagram File
// =============================================================================

// loadStore reads the configured diagram file into a new store.
func (c *CLI) loadStore() (*diagram.Store, error) {
	snap, err := diagramio.ImportJSON(c.Config.File)
	if err != nil {
		if errs.Is(err, errs.ErrCodeFileNotFound) {
			return nil, fmt.Errorf("%w (run '%s new' first)", err, appName)
		}
		return nil, err
	}
	store := diagram.NewStore()
	if err := store.Load(snap); err != nil {
		return nil, err
	}
	return store, nil
}

// saveStore writes the store back to the configured diagram file.
func (c *CLI) saveStore(store *diagram.Store) error {
	return diagramio.ExportJSON(store.Snapshot(), c.Config.File)
}

// editStore loads the diagram, applies fn and saves the result.
func (c *CLI) editStore(fn func(*diagram.Store) error) error {
	store, err := c.loadStore()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	return c.saveStore(store)
}

// ExitMessage formats err for the terminal.
func ExitMessage(err error) string {
	return styleIconError.Render(iconError) + " " + err.Error()
}
