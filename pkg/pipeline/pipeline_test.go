package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mkoller/domainmap/pkg/cache"
	"github.com/mkoller/domainmap/pkg/hierarchy"
	"github.com/mkoller/domainmap/pkg/tabular"
)

func testWorkbook() tabular.Workbook {
	return tabular.Workbook{
		Hierarchy: []hierarchy.HierarchyRow{
			{DataDomainL1: "Sales", BusinessProcessL1: "Order", BusinessProcessL2: "Refund"},
			{DataDomainL1: "Finance", BusinessProcessL1: "Billing"},
			{DataDomainL1: "Finance", BusinessProcessL1: "Ledger"},
		},
		Dependencies: []hierarchy.DependencyRow{
			{Source: "Refund", Target: "Billing"},
		},
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestExecuteNoFocus(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), testWorkbook(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}
	if len(result.View.Nodes) != 5 {
		t.Errorf("view has %d nodes, want all 5", len(result.View.Nodes))
	}
	for _, n := range result.View.Nodes {
		if n.Highlight != hierarchy.HighlightOther {
			t.Errorf("node %s highlight = %s, want Other", n.ID, n.Highlight)
		}
	}
	if result.DatasetHash == "" {
		t.Error("DatasetHash is empty")
	}
}

func TestExecuteWithFocus(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	opts := Options{Focus: "Sales > Order > Refund"}
	result, err := runner.Execute(context.Background(), testWorkbook(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	highlights := make(map[string]hierarchy.Highlight)
	for _, n := range result.View.Nodes {
		highlights[n.ID] = n.Highlight
	}
	if got := highlights["Sales > Order > Refund"]; got != hierarchy.HighlightFocused {
		t.Errorf("focus highlight = %s, want Focused", got)
	}
	if got := highlights["Finance > Billing"]; got != hierarchy.HighlightDependency {
		t.Errorf("dependency highlight = %s, want Dependency", got)
	}
	if _, visible := highlights["Finance > Ledger"]; visible {
		t.Error("Finance > Ledger should not be visible")
	}
}

func TestExecuteWithSearch(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), testWorkbook(), Options{Search: "refund"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.View.FocusID != "Sales > Order > Refund" {
		t.Errorf("FocusID = %q, want search match", result.View.FocusID)
	}
}

func TestExecuteSearchMissFallsBackToFullView(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), testWorkbook(), Options{Search: "nonexistent"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.View.FocusID != "" {
		t.Errorf("FocusID = %q, want empty on search miss", result.View.FocusID)
	}
	if len(result.View.Nodes) != 5 {
		t.Errorf("view has %d nodes, want full table", len(result.View.Nodes))
	}
}

func TestValidateFocus(t *testing.T) {
	wb := testWorkbook()
	tree := BuildTree(wb.Hierarchy, wb.Dependencies)

	tests := []struct {
		name    string
		focus   string
		wantErr bool
	}{
		{"empty focus", "", false},
		{"known id", "Finance > Billing", false},
		{"unknown id", "No > Such > Node", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFocus(tree, Options{Focus: tt.focus})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFocus(%q) error = %v, wantErr %v", tt.focus, err, tt.wantErr)
			}
		})
	}
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"0123456789abcdef", "0123456789ab"},
	}
	for _, tt := range tests {
		if got := shortHash(tt.in); got != tt.want {
			t.Errorf("shortHash(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecuteUnknownFocusFails(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	_, err := runner.Execute(context.Background(), testWorkbook(), Options{Focus: "No > Such > Node"})
	if err == nil {
		t.Fatal("expected error for unknown explicit focus")
	}
}

func TestExecuteEmptyWorkbookFails(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	_, err := runner.Execute(context.Background(), tabular.Workbook{}, Options{})
	if err == nil {
		t.Fatal("expected error for workbook without hierarchy rows")
	}
}

func TestExecuteCachesStages(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	ctx := context.Background()
	opts := Options{Focus: "Sales > Order > Refund"}

	first, err := runner.Execute(ctx, testWorkbook(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.TableHit || first.CacheInfo.ViewHit {
		t.Errorf("first run should miss cache, got %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, testWorkbook(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.TableHit || !second.CacheInfo.ViewHit {
		t.Errorf("second run should hit cache, got %+v", second.CacheInfo)
	}
	if len(second.View.Nodes) != len(first.View.Nodes) {
		t.Errorf("cached view has %d nodes, want %d", len(second.View.Nodes), len(first.View.Nodes))
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	ctx := context.Background()

	if _, err := runner.Execute(ctx, testWorkbook(), Options{}); err != nil {
		t.Fatalf("priming Execute: %v", err)
	}
	result, err := runner.Execute(ctx, testWorkbook(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.TableHit || result.CacheInfo.ViewHit {
		t.Errorf("refresh run should bypass cache, got %+v", result.CacheInfo)
	}
}

func TestViewKeyDistinguishesLeafDeps(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	all := Options{}.ViewKeyOpts("Sales")
	leaves := Options{LeafDeps: true}.ViewKeyOpts("Sales")
	if keyer.ViewKey("hash", all) == keyer.ViewKey("hash", leaves) {
		t.Error("leaf-deps option should change the view cache key")
	}
}
