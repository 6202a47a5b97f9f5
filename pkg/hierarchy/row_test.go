package hierarchy

import (
	"reflect"
	"testing"
)

func TestRowPath(t *testing.T) {
	tests := []struct {
		name string
		row  HierarchyRow
		want []string
	}{
		{
			name: "AllLevels",
			row: HierarchyRow{
				DataDomainL1:      "Sales",
				BusinessProcessL1: "Order",
				BusinessProcessL2: "Refund",
				DataDomainL2:      "Billing",
				DataDomainL3:      "Invoices",
				UseCase:           "Chargebacks",
			},
			want: []string{"Sales", "Order", "Refund", "Billing", "Invoices", "Chargebacks"},
		},
		{
			name: "SkipsEmptyCells",
			row: HierarchyRow{
				DataDomainL1: "Sales",
				DataDomainL2: "Billing",
			},
			want: []string{"Sales", "Billing"},
		},
		{
			name: "TrimsWhitespace",
			row: HierarchyRow{
				DataDomainL1:      "  Sales ",
				BusinessProcessL1: "\tOrder\n",
			},
			want: []string{"Sales", "Order"},
		},
		{
			name: "WhitespaceOnlyCellIsEmpty",
			row: HierarchyRow{
				DataDomainL1:      "Sales",
				BusinessProcessL1: "   ",
			},
			want: []string{"Sales"},
		},
		{
			name: "BlankRow",
			row:  HierarchyRow{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.row.Path()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathsPreservesRowOrder(t *testing.T) {
	rows := []HierarchyRow{
		{DataDomainL1: "Finance"},
		{},
		{DataDomainL1: "Sales", BusinessProcessL1: "Order"},
	}

	paths := Paths(rows)
	if len(paths) != 3 {
		t.Fatalf("Paths() returned %d entries, want 3", len(paths))
	}
	if paths[0][0] != "Finance" {
		t.Errorf("paths[0] = %v, want [Finance]", paths[0])
	}
	if len(paths[1]) != 0 {
		t.Errorf("blank row should yield an empty path, got %v", paths[1])
	}
	if !reflect.DeepEqual(paths[2], []string{"Sales", "Order"}) {
		t.Errorf("paths[2] = %v, want [Sales Order]", paths[2])
	}
}
