package hierarchy

// Highlight classifies a visible node for rendering. Every visible node
// carries exactly one category; the focus node wins over Dependency when a
// node is (degenerately) its own dependency.
type Highlight string

const (
	// HighlightFocused marks the currently focused node.
	HighlightFocused Highlight = "Focused"
	// HighlightDependency marks a resolved dependency target of the focus.
	HighlightDependency Highlight = "Dependency"
	// HighlightOther marks every other visible node.
	HighlightOther Highlight = "Other"
)

// DependencyMatch selects how dependency target labels resolve to nodes.
type DependencyMatch int

const (
	// MatchAllLabels resolves a target label to every node carrying it,
	// regardless of tree position. This is the source contract: ambiguous
	// labels expand to all matches.
	MatchAllLabels DependencyMatch = iota
	// MatchLeavesOnly restricts resolution to leaf nodes. Stricter variant
	// for datasets where only leaf-level labels are meaningful dependency
	// endpoints.
	MatchLeavesOnly
)

// ResolveOptions configures a resolver pass.
type ResolveOptions struct {
	// Match controls dependency label resolution. Defaults to MatchAllLabels.
	Match DependencyMatch
}

// ViewNode is a node of the resolved view: a snapshot of the table entry
// plus its per-request highlight tag.
type ViewNode struct {
	Node
	Highlight Highlight `json:"highlight"`
}

// View is the output of one resolver pass: the subset of nodes to render,
// in table iteration order, plus the focus node's resolved dependencies.
type View struct {
	// FocusID is the resolved focus, or "" when the pass ran without one
	// (including the unknown-focus fallback).
	FocusID string `json:"focus,omitempty"`
	// Nodes is the visible subset, each tagged with one highlight category.
	Nodes []ViewNode `json:"nodes"`
	// DepIDs are the node IDs the focus's dependency labels resolved to.
	DepIDs []string `json:"dep_ids,omitempty"`
	// DepLabels are the focus node's dependency target labels.
	DepLabels []string `json:"dep_labels,omitempty"`
}

// Resolve computes the visible, highlighted subset of the table for an
// optional focus ID.
//
// Without a focus — or with a focus ID that is not in the table — every node
// is visible and tagged Other. With a focus, the visible set is the focus's
// ancestor chain plus its subtree, united with each resolved dependency and
// that dependency's full ancestor chain, so the renderer always has a path
// from root to every highlighted node. Dependency targets resolving to the
// focus itself are included; cycles are not detected.
//
// Resolve never fails: unresolved parents end the chain, unknown dependency
// labels resolve to nothing, and the result is always well formed.
func Resolve(t *Tree, focusID string, opts ResolveOptions) View {
	focus, ok := t.nodes[focusID]
	if focusID == "" || !ok {
		return fullView(t)
	}

	visible := make(map[string]struct{})
	for _, id := range t.Ancestors(focusID) {
		visible[id] = struct{}{}
	}
	for _, id := range t.Descendants(focusID) {
		visible[id] = struct{}{}
	}

	depLabels := focus.Dependencies
	depIDs := resolveDependencyIDs(t, depLabels, opts.Match)
	depSet := make(map[string]struct{}, len(depIDs))
	for _, id := range depIDs {
		depSet[id] = struct{}{}
		for _, anc := range t.Ancestors(id) {
			visible[anc] = struct{}{}
		}
	}

	view := View{
		FocusID:   focusID,
		DepIDs:    depIDs,
		DepLabels: depLabels,
	}
	for _, id := range t.order {
		if _, ok := visible[id]; !ok {
			continue
		}
		view.Nodes = append(view.Nodes, ViewNode{
			Node:      *t.nodes[id],
			Highlight: classify(id, focusID, depSet),
		})
	}
	return view
}

// PreOrder returns the view's nodes in depth-first pre-order: each node
// followed by its visible descendants, siblings keeping their table order.
// Table iteration order places parents before their children but interleaves
// subtrees when source rows alternate roots, so indentation-based renderers
// need this ordering to group children under their parent.
func (v View) PreOrder() []ViewNode {
	present := make(map[string]struct{}, len(v.Nodes))
	for _, n := range v.Nodes {
		present[n.ID] = struct{}{}
	}

	children := make(map[string][]int)
	var roots []int
	for i, n := range v.Nodes {
		if _, ok := present[n.Parent]; n.Parent != "" && ok {
			children[n.Parent] = append(children[n.Parent], i)
		} else {
			roots = append(roots, i)
		}
	}

	ordered := make([]ViewNode, 0, len(v.Nodes))
	var walk func(i int)
	walk = func(i int) {
		ordered = append(ordered, v.Nodes[i])
		for _, c := range children[v.Nodes[i].ID] {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return ordered
}

// fullView renders the whole table with every node tagged Other.
func fullView(t *Tree) View {
	view := View{Nodes: make([]ViewNode, 0, len(t.order))}
	for _, id := range t.order {
		view.Nodes = append(view.Nodes, ViewNode{
			Node:      *t.nodes[id],
			Highlight: HighlightOther,
		})
	}
	return view
}

// resolveDependencyIDs maps target labels to node IDs. A label with no
// matching node contributes nothing; a label shared by several nodes
// contributes all of them (filtered to leaves under MatchLeavesOnly).
func resolveDependencyIDs(t *Tree, labels []string, match DependencyMatch) []string {
	var ids []string
	for _, label := range labels {
		for _, id := range t.byLabel[label] {
			if match == MatchLeavesOnly && !t.IsLeaf(id) {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}

func classify(id, focusID string, depSet map[string]struct{}) Highlight {
	if id == focusID {
		return HighlightFocused
	}
	if _, ok := depSet[id]; ok {
		return HighlightDependency
	}
	return HighlightOther
}
