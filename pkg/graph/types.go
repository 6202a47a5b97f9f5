package graph

import (
	"fmt"
	"strings"

	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// =============================================================================
// Table - Node Table Serialization
// =============================================================================

// Table is the canonical serialization format for assembled node tables and
// resolved views. It is the contract consumed by the render layer and the
// payload stored by caches and the dataset store.
//
// Node order matches the tree's insertion order, which keeps search
// precedence and round-trips deterministic.
type Table struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
}

// Node is the wire form of one hierarchy node. Dependencies carry the
// textual rendering ("None" or a ", "-joined sorted list) to match the
// renderer's hover contract; Highlight is only set on resolved views.
type Node struct {
	ID           string `json:"id" bson:"id"`
	Label        string `json:"label" bson:"label"`
	Parent       string `json:"parent,omitempty" bson:"parent,omitempty"`
	Level        int    `json:"level" bson:"level"`
	Dependencies string `json:"dependencies" bson:"dependencies"`
	Highlight    string `json:"highlight,omitempty" bson:"highlight,omitempty"`
}

// DependencyLabels parses the textual dependency rendering back into a
// label slice. The "None" marker and a blank value both yield nil.
func (n Node) DependencyLabels() []string {
	if n.Dependencies == "" || n.Dependencies == hierarchy.NoDependencies {
		return nil
	}
	parts := strings.Split(n.Dependencies, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// =============================================================================
// Tree ↔ Table Conversion
// =============================================================================

// FromTree converts an assembled tree to its serialization format.
// Highlight is left empty: a bare table is the "no focus" rendering input.
func FromTree(t *hierarchy.Tree) Table {
	nodes := t.Nodes()
	out := Table{Nodes: make([]Node, len(nodes))}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:           n.ID,
			Label:        n.Label,
			Parent:       n.Parent,
			Level:        n.Level,
			Dependencies: n.DependencyText(),
		}
	}
	return out
}

// FromView converts a resolved view to its serialization format, carrying
// each node's highlight category.
func FromView(v hierarchy.View) Table {
	out := Table{Nodes: make([]Node, len(v.Nodes))}
	for i, n := range v.Nodes {
		out.Nodes[i] = Node{
			ID:           n.ID,
			Label:        n.Label,
			Parent:       n.Parent,
			Level:        n.Level,
			Dependencies: n.DependencyText(),
			Highlight:    string(n.Highlight),
		}
	}
	return out
}

// ToTree rebuilds an assembled tree from a serialized table, restoring the
// dependency sets from their textual rendering.
//
// The table's invariants are re-derived rather than trusted: each node's ID
// is split on the delimiter and re-folded through [hierarchy.Assemble], so a
// hand-edited table cannot yield a tree with absent parents. An error is
// returned only when a node's recorded ID does not survive that round trip,
// which indicates a corrupted file rather than a tolerable data-shape issue.
func ToTree(tbl Table) (*hierarchy.Tree, error) {
	paths := make([][]string, len(tbl.Nodes))
	for i, n := range tbl.Nodes {
		paths[i] = strings.Split(n.ID, hierarchy.Delimiter)
	}
	t := hierarchy.Assemble(paths)

	merged := make(map[string][]string)
	for _, n := range tbl.Nodes {
		rebuilt, ok := t.Node(n.ID)
		if !ok {
			return nil, fmt.Errorf("node %q: id does not round-trip through its own path", n.ID)
		}
		if labels := n.DependencyLabels(); labels != nil {
			merged[rebuilt.Label] = labels
		}
	}
	t.AttachDependencies(merged)
	return t, nil
}
