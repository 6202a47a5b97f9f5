package render

import (
	"bytes"
	"fmt"

	"github.com/mkoller/domainmap/pkg/graph"
	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// Highlight fill colors, matching the treemap palette.
const (
	ColorFocused    = "#ff7f0e"
	ColorDependency = "#d62728"
	ColorOther      = "#aec7e8"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// ShowDependencyEdges draws dashed edges from the focused node to each
	// node tagged as a dependency target.
	ShowDependencyEdges bool
}

// ToDOT converts a node table to Graphviz DOT format. Hierarchy edges run
// parent to child; with [DOTOptions.ShowDependencyEdges] set, dashed edges
// run from the focused node to every dependency target. The resulting DOT
// string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(tbl graph.Table, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph domainmap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var focusID string
	var depIDs []string
	for _, n := range tbl.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", n.ID, n.Label, fillColor(n.Highlight))
		switch n.Highlight {
		case string(hierarchy.HighlightFocused):
			focusID = n.ID
		case string(hierarchy.HighlightDependency):
			depIDs = append(depIDs, n.ID)
		}
	}

	buf.WriteString("\n")
	for _, n := range tbl.Nodes {
		if n.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Parent, n.ID)
		}
	}

	if opts.ShowDependencyEdges && focusID != "" {
		buf.WriteString("\n")
		for _, id := range depIDs {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=%q];\n", focusID, id, ColorDependency)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fillColor maps a highlight tag to its fill color. Tables serialized without
// highlights (plain builds) fall back to the Other color.
func fillColor(highlight string) string {
	switch highlight {
	case string(hierarchy.HighlightFocused):
		return ColorFocused
	case string(hierarchy.HighlightDependency):
		return ColorDependency
	default:
		return ColorOther
	}
}
