package hierarchy

import (
	"reflect"
	"testing"
)

// resolveTree builds the hierarchy used throughout the resolver tests and
// attaches Refund → Billing:
//
//	Sales > Order > Refund   (depends on Billing)
//	Finance > Billing
//	Finance > Ledger
func resolveTree(t *testing.T) *Tree {
	t.Helper()
	tree := Assemble([][]string{
		{"Sales", "Order", "Refund"},
		{"Finance", "Billing"},
		{"Finance", "Ledger"},
	})
	tree.AttachDependencies(MergeDependencies([]DependencyRow{
		{Source: "Refund", Target: "Billing"},
	}))
	return tree
}

func highlights(v View) map[string]Highlight {
	m := make(map[string]Highlight, len(v.Nodes))
	for _, n := range v.Nodes {
		m[n.ID] = n.Highlight
	}
	return m
}

func TestResolveNoFocus(t *testing.T) {
	tree := resolveTree(t)
	view := Resolve(tree, "", ResolveOptions{})

	if len(view.Nodes) != tree.Len() {
		t.Fatalf("visible nodes = %d, want full table of %d", len(view.Nodes), tree.Len())
	}
	for _, n := range view.Nodes {
		if n.Highlight != HighlightOther {
			t.Errorf("node %q highlight = %q, want Other", n.ID, n.Highlight)
		}
	}
	if len(view.DepIDs) != 0 || len(view.DepLabels) != 0 {
		t.Errorf("no-focus view should carry no dependencies, got %v / %v", view.DepIDs, view.DepLabels)
	}
}

func TestResolveUnknownFocusFallsBack(t *testing.T) {
	tree := resolveTree(t)
	view := Resolve(tree, "No > Such > Node", ResolveOptions{})

	if view.FocusID != "" {
		t.Errorf("FocusID = %q, want empty fallback", view.FocusID)
	}
	if len(view.Nodes) != tree.Len() {
		t.Errorf("unknown focus should fall back to the full table, got %d nodes", len(view.Nodes))
	}
}

func TestResolveWithDependencies(t *testing.T) {
	// Focusing Refund must surface its ancestors, the Billing dependency and
	// Billing's ancestor chain — and nothing else (Ledger stays hidden).
	tree := resolveTree(t)
	view := Resolve(tree, "Sales > Order > Refund", ResolveOptions{})

	h := highlights(view)
	want := map[string]Highlight{
		"Sales":                  HighlightOther,
		"Sales > Order":          HighlightOther,
		"Sales > Order > Refund": HighlightFocused,
		"Finance":                HighlightOther,
		"Finance > Billing":      HighlightDependency,
	}
	if !reflect.DeepEqual(h, want) {
		t.Errorf("highlights = %v, want %v", h, want)
	}

	if !reflect.DeepEqual(view.DepIDs, []string{"Finance > Billing"}) {
		t.Errorf("DepIDs = %v, want [Finance > Billing]", view.DepIDs)
	}
	if !reflect.DeepEqual(view.DepLabels, []string{"Billing"}) {
		t.Errorf("DepLabels = %v, want [Billing]", view.DepLabels)
	}
}

func TestResolveDependencyClosure(t *testing.T) {
	// Every resolved dependency ID must have its full ancestor chain in the
	// visible set, so the renderer can draw a path from the root.
	tree := resolveTree(t)
	view := Resolve(tree, "Sales > Order > Refund", ResolveOptions{})

	visible := make(map[string]bool)
	for _, n := range view.Nodes {
		visible[n.ID] = true
	}
	for _, dep := range view.DepIDs {
		for _, anc := range tree.Ancestors(dep) {
			if !visible[anc] {
				t.Errorf("ancestor %q of dependency %q missing from visible set", anc, dep)
			}
		}
	}
}

func TestResolveDescendantsVisible(t *testing.T) {
	tree := resolveTree(t)
	view := Resolve(tree, "Sales", ResolveOptions{})

	h := highlights(view)
	if h["Sales"] != HighlightFocused {
		t.Errorf("Sales highlight = %q, want Focused", h["Sales"])
	}
	for _, id := range []string{"Sales > Order", "Sales > Order > Refund"} {
		if h[id] != HighlightOther {
			t.Errorf("descendant %q highlight = %q, want Other", id, h[id])
		}
	}
	if _, ok := h["Finance"]; ok {
		t.Error("Finance should not be visible when focusing Sales")
	}
}

func TestResolveUnknownDependencyLabel(t *testing.T) {
	// A dependency label with no matching node is silently dropped.
	tree := Assemble([][]string{{"Sales", "Order", "Refund"}})
	tree.AttachDependencies(map[string][]string{"Refund": {"Ghost"}})

	view := Resolve(tree, "Sales > Order > Refund", ResolveOptions{})
	if len(view.DepIDs) != 0 {
		t.Errorf("DepIDs = %v, want empty for unresolvable label", view.DepIDs)
	}
	if !reflect.DeepEqual(view.DepLabels, []string{"Ghost"}) {
		t.Errorf("DepLabels = %v, want [Ghost]", view.DepLabels)
	}
}

func TestResolveSelfDependency(t *testing.T) {
	// A node depending on its own label stays Focused: classification order
	// gives focus precedence over dependency.
	tree := Assemble([][]string{{"Sales", "Order", "Refund"}})
	tree.AttachDependencies(map[string][]string{"Refund": {"Refund"}})

	view := Resolve(tree, "Sales > Order > Refund", ResolveOptions{})
	h := highlights(view)
	if h["Sales > Order > Refund"] != HighlightFocused {
		t.Errorf("self-dependent focus highlight = %q, want Focused", h["Sales > Order > Refund"])
	}
	if !reflect.DeepEqual(view.DepIDs, []string{"Sales > Order > Refund"}) {
		t.Errorf("DepIDs = %v, want the focus itself", view.DepIDs)
	}
}

func TestResolveAmbiguousLabel(t *testing.T) {
	// Two nodes share the "Billing" label; the default mode includes both,
	// the leaves-only mode keeps just the leaf.
	tree := Assemble([][]string{
		{"Sales", "Order", "Refund"},
		{"Finance", "Billing"},
		{"Ops", "Billing", "Disputes"},
	})
	tree.AttachDependencies(map[string][]string{"Refund": {"Billing"}})

	all := Resolve(tree, "Sales > Order > Refund", ResolveOptions{Match: MatchAllLabels})
	wantAll := []string{"Finance > Billing", "Ops > Billing"}
	if !reflect.DeepEqual(all.DepIDs, wantAll) {
		t.Errorf("MatchAllLabels DepIDs = %v, want %v", all.DepIDs, wantAll)
	}

	leaves := Resolve(tree, "Sales > Order > Refund", ResolveOptions{Match: MatchLeavesOnly})
	wantLeaves := []string{"Finance > Billing"}
	if !reflect.DeepEqual(leaves.DepIDs, wantLeaves) {
		t.Errorf("MatchLeavesOnly DepIDs = %v, want %v", leaves.DepIDs, wantLeaves)
	}
}

func TestViewPreOrder(t *testing.T) {
	// Rows alternate roots, so table order interleaves the subtrees:
	// Sales, Order, Finance, Billing, Pay. Pre-order regroups Pay under
	// Sales while siblings keep their table order.
	tree := Assemble([][]string{
		{"Sales", "Order"},
		{"Finance", "Billing"},
		{"Sales", "Pay"},
	})
	view := Resolve(tree, "", ResolveOptions{})

	var ids []string
	for _, n := range view.PreOrder() {
		ids = append(ids, n.ID)
	}
	want := []string{"Sales", "Sales > Order", "Sales > Pay", "Finance", "Finance > Billing"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("PreOrder = %v, want %v", ids, want)
	}
}
