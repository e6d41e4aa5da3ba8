package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/geometry"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
	"github.com/matzehuels/sysmlite/pkg/render/mermaid"
)

// inspectCommand creates the "inspect" command.
func (c *CLI) inspectCommand() *cobra.Command {
	var asMermaid, asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the placements and connections of the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadStore()
			if err != nil {
				return err
			}
			snap := store.Snapshot()

			switch {
			case asMermaid:
				fmt.Fprint(stdout, mermaid.Compile(snap))
				return nil
			case asJSON:
				return diagramio.WriteJSON(snap, stdout)
			}

			fmt.Fprintln(stdout, StyleTitle.Render(c.Config.File))
			fmt.Fprintln(stdout, placementTable(store))
			if len(snap.Connections) > 0 {
				fmt.Fprintln(stdout, connectionTable(snap))
			}
			bbox := geometry.BoundingBox(store.Boxes())
			printDetail("%d elements · %d placements · %d connections · bounds %.0fx%.0f at (%.0f, %.0f)",
				len(snap.Elements), len(snap.Placements), len(snap.Connections),
				bbox.Width, bbox.Height, bbox.X, bbox.Y)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asMermaid, "mermaid", false, "print Mermaid class-diagram text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.MarkFlagsMutuallyExclusive("mermaid", "json")
	return cmd
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// placementTable renders one row per placement. Placements whose element is
// gone show the fallback name in the warning color.
func placementTable(store *diagram.Store) string {
	placements := store.Placements()
	rows := make([][]string, 0, len(placements))
	missing := make(map[int]bool)
	for i, p := range placements {
		v, _ := store.Resolve(p.ID)
		typ := string(v.Element.Type)
		if v.Missing {
			missing[i] = true
			typ = "—"
		}
		desc := strings.Join(v.Element.Lines(), "; ")
		rows = append(rows, []string{p.ID, v.Element.ID, typ, v.Element.Name, formatPoint(p.Position), desc})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Placement", "Element", "Type", "Name", "Position", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if missing[row] {
				return StyleWarning
			}
			if col == 2 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// connectionTable renders one row per connection with its derived style.
func connectionTable(snap diagram.Snapshot) string {
	rows := make([][]string, 0, len(snap.Connections))
	for _, conn := range snap.Connections {
		rows = append(rows, []string{
			conn.ID,
			endpointName(snap, conn.Source) + " " + iconArrow + " " + endpointName(snap, conn.Target),
			conn.Label,
			describeStyle(conn),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Connection", "Between", "Label", "Style").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func endpointName(snap diagram.Snapshot, placementID string) string {
	if e, ok := snap.ElementAt(placementID); ok && e.Name != "" {
		return e.Name
	}
	if _, ok := snap.Placement(placementID); !ok {
		return placementID + " (dangling)"
	}
	return placementID
}
