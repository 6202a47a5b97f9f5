package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const workbookJSON = `{
  "hierarchy": [
    {"Data Domain L1": "Sales", "Business Process L1": "Order"},
    {"Data Domain L1": "Finance", "Business Process L1": "Billing"}
  ],
  "dependencies": [
    {"Data Domain L3": "Order", "Data Domain L3 - Dependency": "Billing"}
  ]
}`

func TestLoadWorkbookJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workbook.json")
	if err := os.WriteFile(path, []byte(workbookJSON), 0o600); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	wb, err := loadWorkbook([]string{path}, "", "")
	if err != nil {
		t.Fatalf("loadWorkbook: %v", err)
	}
	if len(wb.Hierarchy) != 2 || len(wb.Dependencies) != 1 {
		t.Errorf("workbook = %d hierarchy rows, %d dependency rows", len(wb.Hierarchy), len(wb.Dependencies))
	}
}

func TestLoadWorkbookCSV(t *testing.T) {
	dir := t.TempDir()
	hier := filepath.Join(dir, "hierarchy.csv")
	deps := filepath.Join(dir, "deps.csv")

	hierCSV := "Data Domain L1,Business Process L1\nSales,Order\n"
	depsCSV := "Data Domain L3,Data Domain L3 - Dependency\nOrder,Billing\n"
	if err := os.WriteFile(hier, []byte(hierCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(deps, []byte(depsCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	wb, err := loadWorkbook(nil, hier, deps)
	if err != nil {
		t.Fatalf("loadWorkbook: %v", err)
	}
	if len(wb.Hierarchy) != 1 || len(wb.Dependencies) != 1 {
		t.Errorf("workbook = %d hierarchy rows, %d dependency rows", len(wb.Hierarchy), len(wb.Dependencies))
	}
}

func TestLoadWorkbookArgumentErrors(t *testing.T) {
	if _, err := loadWorkbook(nil, "", ""); err == nil {
		t.Error("expected error with no input at all")
	}
	if _, err := loadWorkbook([]string{"wb.json"}, "h.csv", ""); err == nil {
		t.Error("expected error with both JSON and CSV inputs")
	}
}

func TestParseFormat(t *testing.T) {
	if got := parseFormat(" SVG "); got != "svg" {
		t.Errorf("parseFormat = %q, want svg", got)
	}
}
