package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mkoller/domainmap/pkg/hierarchy"
	"github.com/mkoller/domainmap/pkg/pipeline"
)

// Highlight styles for the interactive tree.
var (
	tuiFocused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	tuiDependency = lipgloss.NewStyle().Foreground(colorRed)
	tuiOther      = lipgloss.NewStyle().Foreground(colorWhite)
	tuiCursor     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDim        = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the tui command for interactive browsing.
func (c *CLI) tuiCommand() *cobra.Command {
	opts := buildOpts{}
	var leafDeps bool

	cmd := &cobra.Command{
		Use:   "tui [workbook.json]",
		Short: "Browse the hierarchy interactively",
		Long: `Browse the hierarchy in an interactive terminal UI.

Keys:
  up/down, j/k   move the cursor
  enter          focus the node under the cursor
  /              search labels (enter to focus the first match)
  r              reset the focus
  q              quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := loadWorkbook(args, opts.hierarchy, opts.deps)
			if err != nil {
				return err
			}
			if err := wb.Validate(); err != nil {
				return err
			}

			match := hierarchy.MatchAllLabels
			if leafDeps || c.Config.Resolve.LeafDeps {
				match = hierarchy.MatchLeavesOnly
			}
			tree := pipeline.BuildTree(wb.Hierarchy, wb.Dependencies)

			p := tea.NewProgram(newTreeModel(tree, match), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.hierarchy, "hierarchy", "", "hierarchy sheet CSV file")
	cmd.Flags().StringVar(&opts.deps, "deps", "", "dependency sheet CSV file")
	cmd.Flags().BoolVar(&leafDeps, "leaf-deps", false, "match dependency labels against leaf nodes only")

	return cmd
}

// =============================================================================
// TreeModel - Interactive hierarchy navigation
// =============================================================================

// TreeModel is the bubbletea model for hierarchy browsing. It keeps the
// assembled tree immutable and re-resolves the view whenever the focus
// changes.
type TreeModel struct {
	tree  *hierarchy.Tree
	match hierarchy.DependencyMatch

	view   hierarchy.View
	cursor int
	offset int
	height int

	searching bool
	query     string
	status    string
}

// newTreeModel creates a model showing the full, unfocused tree.
func newTreeModel(tree *hierarchy.Tree, match hierarchy.DependencyMatch) TreeModel {
	m := TreeModel{
		tree:   tree,
		match:  match,
		height: 20,
	}
	m.view = hierarchy.Resolve(tree, "", hierarchy.ResolveOptions{Match: match})
	m.view.Nodes = m.view.PreOrder()
	return m
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m TreeModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.view.Nodes)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "enter":
		if len(m.view.Nodes) > 0 {
			m = m.refocus(m.view.Nodes[m.cursor].ID)
		}
	case "r":
		m = m.refocus("")
		m.status = "focus cleared"
	case "/":
		m.searching = true
		m.query = ""
		m.status = ""
	}
	return m, nil
}

func (m TreeModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.query = ""
	case "enter":
		m.searching = false
		if id, ok := m.tree.SearchLabel(m.query); ok {
			m = m.refocus(id)
			m.status = fmt.Sprintf("focused %s", id)
		} else {
			m.status = fmt.Sprintf("no label matches %q", m.query)
		}
		m.query = ""
	case "backspace":
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.query += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.query += " "
		}
	}
	return m, nil
}

// refocus re-resolves the view for a new focus and moves the cursor onto the
// focused node if it is visible. Nodes are kept in pre-order so indentation
// lines up with the cursor position.
func (m TreeModel) refocus(id string) TreeModel {
	m.view = hierarchy.Resolve(m.tree, id, hierarchy.ResolveOptions{Match: m.match})
	m.view.Nodes = m.view.PreOrder()
	m.cursor = 0
	m.offset = 0
	for i, n := range m.view.Nodes {
		if n.ID == m.view.FocusID {
			m.cursor = i
			break
		}
	}
	if m.cursor >= m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("domainmap"))
	b.WriteString("\n")
	b.WriteString(tuiDim.Render("↑/↓ navigate  ⏎ focus  / search  r reset  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.view.Nodes) {
		end = len(m.view.Nodes)
	}

	for i := m.offset; i < end; i++ {
		n := m.view.Nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = tuiCursor.Render("▸ ")
		}

		line := strings.Repeat("  ", n.Level) + n.Label
		switch n.Highlight {
		case hierarchy.HighlightFocused:
			line = tuiFocused.Render("● " + line)
		case hierarchy.HighlightDependency:
			line = tuiDependency.Render("◆ " + line)
		default:
			line = tuiOther.Render("○ " + line)
		}

		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())

	return b.String()
}

// statusLine renders the bottom panel: search input, transient status, or
// details of the node under the cursor.
func (m TreeModel) statusLine() string {
	if m.searching {
		return StyleValue.Render("search: ") + m.query + tuiCursor.Render("█")
	}
	if m.status != "" {
		return tuiDim.Render(m.status)
	}
	if len(m.view.Nodes) == 0 {
		return tuiDim.Render("empty tree")
	}

	n := m.view.Nodes[m.cursor]
	info := fmt.Sprintf("%s  ·  level %d  ·  deps: %s", n.ID, n.Level, n.DependencyText())
	return tuiDim.Render(info)
}
