package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	errs "github.com/matzehuels/sysmlite/pkg/errors"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
	"github.com/matzehuels/sysmlite/pkg/model"
	"github.com/matzehuels/sysmlite/pkg/style"
)

// newCommand creates the "new" command that initializes a diagram file.
func (c *CLI) newCommand() *cobra.Command {
	var empty, force bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a diagram file",
		Long:  `Create a diagram file. By default it holds a sample block, a requirement and a satisfy relationship between them.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.File
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}

			snap := diagram.Seed()
			if empty {
				snap = diagram.Snapshot{
					Placements:  []diagram.Placement{},
					Connections: []diagram.Connection{},
					Elements:    map[string]model.Element{},
				}
			}
			if err := diagramio.ExportJSON(snap, path); err != nil {
				return err
			}

			printSuccess("Created %s", path)
			printDetail("%d placements, %d connections", len(snap.Placements), len(snap.Connections))
			printNextStep("Add an element", appName+" add block --name Engine")
			return nil
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "start without sample content")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var name, description string
	var x, y float64

	types := make([]string, len(model.Types))
	for i, t := range model.Types {
		types[i] = strings.ToLower(string(t))
	}

	cmd := &cobra.Command{
		Use:       "add <type>",
		Short:     "Add an element and place it on the canvas",
		Long:      "Add an element and place it on the canvas.\n\nTypes: " + strings.Join(types, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: types,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseType(args[0])
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidType, err, "add %s", args[0])
			}

			var e model.Element
			var p diagram.Placement
			err = c.editStore(func(s *diagram.Store) error {
				e, p = s.AddElement(t)

				var patch model.Patch
				if cmd.Flags().Changed("name") {
					patch.Name = &name
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if !patch.IsEmpty() {
					s.UpdateElement(e.ID, patch)
					e, _ = s.Element(e.ID)
				}

				if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
					pos := p.Position
					if cmd.Flags().Changed("x") {
						pos.X = x
					}
					if cmd.Flags().Changed("y") {
						pos.Y = y
					}
					s.ApplyPlacementChanges([]diagram.PlacementChange{
						{Type: diagram.ChangePosition, ID: p.ID, Position: &pos},
					})
					p, _ = s.Placement(p.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}

			printSuccess("Added %s %s", StyleHighlight.Render(string(e.Type)), displayName(e))
			printKeyValue("element", e.ID)
			printKeyValue("placement", p.ID)
			printKeyValue("position", formatPoint(p.Position))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "element name")
	cmd.Flags().StringVar(&description, "description", "", "element description (attributes, one per line)")
	cmd.Flags().Float64Var(&x, "x", 0, "x position (default random)")
	cmd.Flags().Float64Var(&y, "y", 0, "y position (default random)")
	return cmd
}

// connectCommand creates the "connect" command.
func (c *CLI) connectCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "connect <source-placement> <target-placement>",
		Short: "Connect two placements",
		Long:  "Connect two placements. The label selects the relationship style.\n\nLabels: " + kindList(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var conn diagram.Connection
			err := c.editStore(func(s *diagram.Store) error {
				var ok bool
				if conn, ok = s.Connect(args[0], args[1]); !ok {
					return errs.New(errs.ErrCodeNotFound, "placement %q or %q not found", args[0], args[1])
				}
				if label != "" {
					s.UpdateConnectionLabel(conn.ID, label)
					conn, _ = s.Connection(conn.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Connected %s %s %s", args[0], iconArrow, args[1])
			printKeyValue("connection", conn.ID)
			printKeyValue("style", describeStyle(conn))
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "relationship label")
	return cmd
}

// labelCommand creates the "label" command.
func (c *CLI) labelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "label <connection> <label>",
		Short: "Relabel a connection",
		Long:  "Relabel a connection. Its style is derived from the new label; an empty label resets it.\n\nLabels: " + kindList(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var conn diagram.Connection
			err := c.editStore(func(s *diagram.Store) error {
				if !s.UpdateConnectionLabel(args[0], args[1]) {
					return errs.New(errs.ErrCodeNotFound, "connection %q not found", args[0])
				}
				conn, _ = s.Connection(args[0])
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Relabeled %s", conn.ID)
			printKeyValue("style", describeStyle(conn))
			return nil
		},
	}
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <placement-or-connection>...",
		Aliases: []string{"rm"},
		Short:   "Remove placements or connections",
		Long:    `Remove placements or connections. Removing a placement also removes every connection attached to it; the element itself is kept.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editStore(func(s *diagram.Store) error {
				for _, id := range args {
					switch {
					case s.RemovePlacement(id):
						printSuccess("Removed placement %s", id)
					case s.RemoveConnection(id):
						printSuccess("Removed connection %s", id)
					default:
						printWarning("Nothing named %s", id)
					}
				}
				return nil
			})
		},
	}
}

// =============================================================================
// Formatting helpers
// =============================================================================

func displayName(e model.Element) string {
	if e.Name == "" {
		return StyleDim.Render("(unnamed)")
	}
	return StyleValue.Render(e.Name)
}

func formatPoint(p geometry.Point) string {
	return fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
}

func describeStyle(conn diagram.Connection) string {
	d := conn.Style()
	line := "solid"
	if d.Dashed() {
		line = "dashed"
	}
	parts := []string{line, "end " + d.EndMarker.String()}
	if d.StartMarker != style.MarkerNone {
		parts = append(parts, "start "+d.StartMarker.String())
	}
	return strings.Join(parts, ", ")
}

func kindList() string {
	names := make([]string, len(style.Kinds))
	for i, k := range style.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
