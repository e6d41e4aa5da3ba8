package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/config"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

// configCommand creates the configuration management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.Config.Dump()
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.FileName); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", config.FileName)
			}
			data, err := c.Config.Dump()
			if err != nil {
				return err
			}
			if err := os.WriteFile(config.FileName, data, 0o644); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", config.FileName)
			}
			printSuccess("Created %s", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
