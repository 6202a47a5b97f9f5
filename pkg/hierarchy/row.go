package hierarchy

import "strings"

// Column names of the hierarchy workbook. The order of the six level columns
// is fixed and significant: it determines the nesting order of the tree.
const (
	ColDataDomainL1      = "Data Domain L1"
	ColBusinessProcessL1 = "Business Process L1"
	ColBusinessProcessL2 = "Business Process L2"
	ColDataDomainL2      = "Data Domain L2"
	ColDataDomainL3      = "Data Domain L3"
	ColUseCase           = "Use-case"

	// ColDependencyTarget is the target column of the dependency sheet.
	ColDependencyTarget = "Data Domain L3 - Dependency"
)

// LevelColumns lists the six recognized level columns in source order.
var LevelColumns = []string{
	ColDataDomainL1,
	ColBusinessProcessL1,
	ColBusinessProcessL2,
	ColDataDomainL2,
	ColDataDomainL3,
	ColUseCase,
}

// HierarchyRow is one row of the hierarchy sheet. Any of the six level cells
// may be empty; empty cells are skipped when the row is turned into a path.
type HierarchyRow struct {
	DataDomainL1      string `json:"Data Domain L1"`
	BusinessProcessL1 string `json:"Business Process L1"`
	BusinessProcessL2 string `json:"Business Process L2"`
	DataDomainL2      string `json:"Data Domain L2"`
	DataDomainL3      string `json:"Data Domain L3"`
	UseCase           string `json:"Use-case"`
}

// DependencyRow is one row of the dependency sheet: a leaf label and the
// label it depends on. Rows with a blank source or target are discarded
// during merging.
type DependencyRow struct {
	Source string `json:"Data Domain L3"`
	Target string `json:"Data Domain L3 - Dependency"`
}

// Path converts the row into an ordered sequence of non-empty level labels.
// Cells are trimmed; blank cells are omitted entirely rather than padded, so
// the path length varies per row. A fully blank row yields an empty path.
func (r HierarchyRow) Path() []string {
	cells := []string{
		r.DataDomainL1,
		r.BusinessProcessL1,
		r.BusinessProcessL2,
		r.DataDomainL2,
		r.DataDomainL3,
		r.UseCase,
	}

	var path []string
	for _, c := range cells {
		if v := strings.TrimSpace(c); v != "" {
			path = append(path, v)
		}
	}
	return path
}

// Paths builds one path per row, preserving row order. Rows that yield an
// empty path are kept as empty slices; [Assemble] ignores them.
func Paths(rows []HierarchyRow) [][]string {
	paths := make([][]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Path()
	}
	return paths
}
