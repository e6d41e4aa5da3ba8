package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sysmlite/pkg/diagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse placements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadStore()
			if err != nil {
				return err
			}
			snap := store.Snapshot()
			if len(snap.Placements) == 0 {
				printInfo("Diagram is empty")
				return nil
			}

			final, err := tea.NewProgram(NewPlacementListModel(store), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m := final.(PlacementListModel)
			if m.Selected == nil {
				return nil
			}
			v := *m.Selected
			printKeyValue("placement", v.Placement.ID)
			printKeyValue("element", v.Element.ID)
			printKeyValue("type", string(v.Element.Type))
			printKeyValue("name", v.Element.Name)
			return nil
		},
	}
}

// =============================================================================
// PlacementListModel - Interactive placement browser
// =============================================================================

// PlacementListModel is the bubbletea model for browsing placements.
type PlacementListModel struct {
	Views       []diagram.View
	Connections []diagram.Connection
	Cursor      int
	Selected    *diagram.View
	Height      int
	Offset      int
}

// NewPlacementListModel creates a model listing every placement of store.
func NewPlacementListModel(store *diagram.Store) PlacementListModel {
	placements := store.Placements()
	views := make([]diagram.View, 0, len(placements))
	for _, p := range placements {
		if v, ok := store.Resolve(p.ID); ok {
			views = append(views, v)
		}
	}
	return PlacementListModel{
		Views:       views,
		Connections: store.Connections(),
		Height:      10,
	}
}

func (m PlacementListModel) Init() tea.Cmd {
	return nil
}

func (m PlacementListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Views)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Views) == 0 {
				return m, nil
			}
			v := m.Views[m.Cursor]
			m.Selected = &v
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m PlacementListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Placements"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Views))
	for i := m.Offset; i < end; i++ {
		v := m.Views[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		typ := string(v.Element.Type)
		if v.Missing {
			typ = "missing"
		}
		line := fmt.Sprintf("%s%-28s %s", cursor, v.Element.Name, listDimStyle.Render(typ))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case v.Missing:
			b.WriteString(StyleWarning.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Views) > 0 {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(m.detail(m.Views[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Views))))

	return b.String()
}

// detail describes one placement: its element and attached connections.
func (m PlacementListModel) detail(v diagram.View) string {
	var b strings.Builder
	if !v.Missing {
		b.WriteString(StyleDim.Render("«" + v.Element.Type.Stereotype() + "»"))
		b.WriteString("\n")
	}
	b.WriteString(StyleValue.Bold(true).Render(v.Element.Name))
	for _, line := range v.Element.Lines() {
		b.WriteString("\n")
		b.WriteString(line)
	}

	names := make(map[string]string, len(m.Views))
	for _, o := range m.Views {
		names[o.Placement.ID] = o.Element.Name
	}
	for _, c := range m.Connections {
		var other, dir string
		switch v.Placement.ID {
		case c.Source:
			other, dir = c.Target, iconArrow
		case c.Target:
			other, dir = c.Source, "←"
		default:
			continue
		}
		name := names[other]
		if name == "" {
			name = other
		}
		label := c.Label
		if label == "" {
			label = "—"
		}
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s %s (%s)", dir, name, label)))
	}
	return b.String()
}
