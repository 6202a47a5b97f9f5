package store

import (
	"context"
	"testing"

	"github.com/mkoller/domainmap/pkg/graph"
)

func testTable() graph.Table {
	return graph.Table{Nodes: []graph.Node{
		{ID: "Sales", Label: "Sales", Level: 0, Dependencies: "None"},
		{ID: "Sales > Order", Label: "Order", Parent: "Sales", Level: 1, Dependencies: "Billing"},
	}}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.LoadTable(ctx, "abc"); err != nil || ok {
		t.Fatalf("LoadTable on empty store = ok %v, err %v", ok, err)
	}

	if err := s.SaveTable(ctx, "abc", testTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	got, ok, err := s.LoadTable(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("LoadTable = ok %v, err %v", ok, err)
	}
	if len(got.Nodes) != 2 || got.Nodes[1].ID != "Sales > Order" {
		t.Errorf("loaded table mismatch: %+v", got.Nodes)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveTable(ctx, "abc", testTable()); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	replacement := graph.Table{Nodes: []graph.Node{{ID: "Finance", Label: "Finance", Level: 0}}}
	if err := s.SaveTable(ctx, "abc", replacement); err != nil {
		t.Fatalf("SaveTable overwrite: %v", err)
	}

	got, _, err := s.LoadTable(ctx, "abc")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "Finance" {
		t.Errorf("overwrite not applied: %+v", got.Nodes)
	}
}

func TestMemoryStoreDatasets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveTable(ctx, id, testTable()); err != nil {
			t.Fatalf("SaveTable %s: %v", id, err)
		}
	}
	ids, err := s.Datasets(ctx)
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Datasets returned %d ids, want 3", len(ids))
	}
}
