package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// ===== Terminal Tree =====

var (
	styleFocused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	styleDependency = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleOther      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styleDeps       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TextOptions configures terminal tree rendering.
type TextOptions struct {
	// ShowDependencies appends each node's dependency labels to its line.
	ShowDependencies bool

	// NoColor disables lipgloss styling for plain output.
	NoColor bool
}

// WriteText writes the view as an indented tree. Nodes are emitted in
// pre-order so every child renders directly under its parent even when the
// source rows interleaved subtrees.
func WriteText(w io.Writer, view hierarchy.View, opts TextOptions) error {
	for _, n := range view.PreOrder() {
		line := strings.Repeat("  ", n.Level) + marker(n.Highlight) + " " + n.Label

		if !opts.NoColor {
			line = styleFor(n.Highlight).Render(line)
		}

		if opts.ShowDependencies && len(n.Dependencies) > 0 {
			deps := " [deps: " + strings.Join(n.Dependencies, ", ") + "]"
			if !opts.NoColor {
				deps = styleDeps.Render(deps)
			}
			line += deps
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Text renders the view to a string. Convenience wrapper around [WriteText].
func Text(view hierarchy.View, opts TextOptions) string {
	var sb strings.Builder
	_ = WriteText(&sb, view, opts)
	return sb.String()
}

func marker(h hierarchy.Highlight) string {
	switch h {
	case hierarchy.HighlightFocused:
		return "●"
	case hierarchy.HighlightDependency:
		return "◆"
	default:
		return "○"
	}
}

func styleFor(h hierarchy.Highlight) lipgloss.Style {
	switch h {
	case hierarchy.HighlightFocused:
		return styleFocused
	case hierarchy.HighlightDependency:
		return styleDependency
	default:
		return styleOther
	}
}
