package graph

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkoller/domainmap/pkg/hierarchy"
)

func sampleTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	tree := hierarchy.Assemble([][]string{
		{"Sales", "Order", "Refund"},
		{"Finance", "Billing"},
	})
	tree.AttachDependencies(map[string][]string{
		"Refund": {"Accounts", "Billing"},
	})
	return tree
}

func TestFromTree(t *testing.T) {
	tbl := FromTree(sampleTree(t))

	if len(tbl.Nodes) != 5 {
		t.Fatalf("serialized %d nodes, want 5", len(tbl.Nodes))
	}
	// Insertion order preserved.
	if tbl.Nodes[0].ID != "Sales" || tbl.Nodes[3].ID != "Finance" {
		t.Errorf("node order = [%s ... %s], want insertion order", tbl.Nodes[0].ID, tbl.Nodes[3].ID)
	}

	byID := make(map[string]Node)
	for _, n := range tbl.Nodes {
		byID[n.ID] = n
	}
	if got := byID["Sales > Order > Refund"].Dependencies; got != "Accounts, Billing" {
		t.Errorf("Refund dependencies = %q, want %q", got, "Accounts, Billing")
	}
	if got := byID["Sales"].Dependencies; got != hierarchy.NoDependencies {
		t.Errorf("Sales dependencies = %q, want %q", got, hierarchy.NoDependencies)
	}
	for _, n := range tbl.Nodes {
		if n.Highlight != "" {
			t.Errorf("bare table node %q carries highlight %q", n.ID, n.Highlight)
		}
	}
}

func TestFromView(t *testing.T) {
	tree := sampleTree(t)
	view := hierarchy.Resolve(tree, "Sales > Order > Refund", hierarchy.ResolveOptions{})
	tbl := FromView(view)

	byID := make(map[string]string)
	for _, n := range tbl.Nodes {
		byID[n.ID] = n.Highlight
	}
	if byID["Sales > Order > Refund"] != string(hierarchy.HighlightFocused) {
		t.Errorf("focus highlight = %q, want Focused", byID["Sales > Order > Refund"])
	}
	if byID["Finance > Billing"] != string(hierarchy.HighlightDependency) {
		t.Errorf("dependency highlight = %q, want Dependency", byID["Finance > Billing"])
	}
}

func TestTableRoundTrip(t *testing.T) {
	orig := FromTree(sampleTree(t))

	data, err := MarshalTable(orig)
	if err != nil {
		t.Fatalf("MarshalTable: %v", err)
	}
	parsed, err := UnmarshalTable(data)
	if err != nil {
		t.Fatalf("UnmarshalTable: %v", err)
	}
	if !reflect.DeepEqual(orig, parsed) {
		t.Errorf("round trip changed the table:\n got %+v\nwant %+v", parsed, orig)
	}

	tree, err := ToTree(parsed)
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	if tree.Len() != 5 {
		t.Errorf("rebuilt tree has %d nodes, want 5", tree.Len())
	}
	refund, ok := tree.Node("Sales > Order > Refund")
	if !ok {
		t.Fatal("rebuilt tree missing Refund node")
	}
	if got := refund.DependencyText(); got != "Accounts, Billing" {
		t.Errorf("rebuilt Refund dependencies = %q, want %q", got, "Accounts, Billing")
	}
}

func TestReadWriteTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	orig := FromTree(sampleTree(t))

	if err := WriteTableFile(orig, path); err != nil {
		t.Fatalf("WriteTableFile: %v", err)
	}
	got, err := ReadTableFile(path)
	if err != nil {
		t.Fatalf("ReadTableFile: %v", err)
	}
	if !reflect.DeepEqual(orig, got) {
		t.Error("file round trip changed the table")
	}
}

func TestReadTableRejectsGarbage(t *testing.T) {
	if _, err := ReadTable(bytes.NewReader([]byte("not json"))); err == nil {
		t.Error("ReadTable should fail on malformed input")
	}
}

func TestDependencyLabels(t *testing.T) {
	tests := []struct {
		name string
		deps string
		want []string
	}{
		{"None", hierarchy.NoDependencies, nil},
		{"Empty", "", nil},
		{"Single", "Billing", []string{"Billing"}},
		{"Multiple", "Accounts, Billing", []string{"Accounts", "Billing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Node{Dependencies: tt.deps}.DependencyLabels()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DependencyLabels(%q) = %v, want %v", tt.deps, got, tt.want)
			}
		})
	}
}
