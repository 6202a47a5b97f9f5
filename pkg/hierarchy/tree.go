package hierarchy

import "strings"

// Delimiter joins path elements into node IDs. A node's ancestors are exactly
// the proper prefixes of its ID at delimiter boundaries.
const Delimiter = " > "

// Node is one entry of the assembled hierarchy table.
//
// Nodes are created once during [Assemble], decorated once by
// [Tree.AttachDependencies], and never mutated afterwards. The highlight tag
// computed per focus change lives on [ViewNode], not here.
type Node struct {
	// ID is the delimiter-joined path prefix ending at this node. Unique.
	ID string `json:"id"`
	// Label is the last path element. Not globally unique: the same label
	// may appear under different parents.
	Label string `json:"label"`
	// Parent is the ID of the immediate parent, or "" for roots.
	Parent string `json:"parent,omitempty"`
	// Level is the zero-based depth (path length minus one).
	Level int `json:"level"`
	// Dependencies holds the sorted, deduplicated labels this node depends
	// on. Nil means no dependency row referenced this node's label.
	Dependencies []string `json:"dependencies,omitempty"`
}

// NoDependencies is the textual marker for a node without dependency rows,
// distinguishable from a present-but-empty list.
const NoDependencies = "None"

// DependencyText renders the dependency set for display: the sorted targets
// joined by ", ", or "None" when no dependency row exists.
func (n *Node) DependencyText() string {
	if n.Dependencies == nil {
		return NoDependencies
	}
	return strings.Join(n.Dependencies, ", ")
}

// Tree is the deduplicated node table with parent/child links, frozen after
// assembly. Iteration order is insertion order, which makes search precedence
// and serialized output deterministic.
//
// Tree is safe for concurrent reads once built; it must not be mutated after
// [Assemble] and [Tree.AttachDependencies] have run.
type Tree struct {
	nodes   map[string]*Node
	order   []string
	byLabel map[string][]string // label -> IDs, insertion order
}

// Assemble folds paths into a deduplicated tree. For every prefix of every
// path it inserts one node; the first occurrence of an ID wins and later
// occurrences are no-ops, so rows that disagree after trimming cannot
// overwrite label, parent or level. Prefixes of length k-1 are always
// processed before length k, so a node's parent is inserted no later than
// the node itself.
func Assemble(paths [][]string) *Tree {
	t := &Tree{
		nodes:   make(map[string]*Node),
		byLabel: make(map[string][]string),
	}

	for _, path := range paths {
		for depth := range path {
			id := strings.Join(path[:depth+1], Delimiter)
			if _, exists := t.nodes[id]; exists {
				continue
			}

			parent := ""
			if depth > 0 {
				parent = strings.Join(path[:depth], Delimiter)
			}

			n := &Node{
				ID:     id,
				Label:  path[depth],
				Parent: parent,
				Level:  depth,
			}
			t.nodes[id] = n
			t.order = append(t.order, id)
			t.byLabel[n.Label] = append(t.byLabel[n.Label], id)
		}
	}

	return t
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID, or false if absent.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The slice is fresh but the
// pointers refer to the tree's nodes; treat them as read-only.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, len(t.order))
	for i, id := range t.order {
		nodes[i] = t.nodes[id]
	}
	return nodes
}

// IDsForLabel returns the IDs of all nodes carrying the given label, in
// insertion order. Returns nil for an unknown label.
func (t *Tree) IDsForLabel(label string) []string {
	return t.byLabel[label]
}

// Ancestors walks the parent chain starting at id and returns every visited
// ID, beginning with id itself. The walk stops at an empty parent or at a
// parent ID that is not in the table — a broken chain counts as reaching a
// root, never an error. Returns nil if id itself is unknown.
func (t *Tree) Ancestors(id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}

	var chain []string
	current := id
	for current != "" {
		n, ok := t.nodes[current]
		if !ok {
			break
		}
		chain = append(chain, current)
		current = n.Parent
	}
	return chain
}

// Descendants returns the IDs of all nodes in the subtree rooted at id,
// including id itself, in insertion order. Membership is decided on the
// delimited ID with a boundary check: "Sales > Order2" is not a descendant
// of "Sales > Order" even though it shares the string prefix.
func (t *Tree) Descendants(id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}

	prefix := id + Delimiter
	var out []string
	for _, candidate := range t.order {
		if candidate == id || strings.HasPrefix(candidate, prefix) {
			out = append(out, candidate)
		}
	}
	return out
}

// IsLeaf reports whether the node with the given ID has no children.
func (t *Tree) IsLeaf(id string) bool {
	if _, ok := t.nodes[id]; !ok {
		return false
	}
	prefix := id + Delimiter
	for _, candidate := range t.order {
		if strings.HasPrefix(candidate, prefix) {
			return false
		}
	}
	return true
}

// SearchLabel performs a case-insensitive substring match of term against
// all node labels and returns the ID of the first match in insertion order.
// A blank term or a term matching nothing returns false; neither is an error.
func (t *Tree) SearchLabel(term string) (string, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", false
	}

	needle := strings.ToLower(term)
	for _, id := range t.order {
		if strings.Contains(strings.ToLower(t.nodes[id].Label), needle) {
			return id, true
		}
	}
	return "", false
}
