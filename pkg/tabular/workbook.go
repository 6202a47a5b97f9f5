// Package tabular ingests workbooks: the hierarchy sheet and the dependency
// sheet that feed the core model. Two encodings are supported, a single JSON
// document and a pair of CSV files, both keyed by the exact column names of
// the source workbook.
//
// This layer owns the structural error surface. Missing required headers and
// malformed documents fail here with a descriptive error; everything past
// this boundary degrades gracefully instead of failing (blank cells are
// skipped, not rejected). Cell values are trimmed on ingest.
package tabular

import (
	"encoding/json"
	"fmt"

	"github.com/mkoller/domainmap/pkg/cache"
	"github.com/mkoller/domainmap/pkg/hierarchy"
)

// Workbook holds the two parsed row sets of one uploaded dataset.
type Workbook struct {
	Hierarchy    []hierarchy.HierarchyRow  `json:"hierarchy"`
	Dependencies []hierarchy.DependencyRow `json:"dependencies"`
}

// Hash returns the content hash identifying this dataset. Identical row sets
// hash identically regardless of how they were ingested, so the hash serves
// as the memoization key for assembled tables and as the dataset ID of the
// serve API.
func (w Workbook) Hash() string {
	// Canonical serialization: JSON of the trimmed rows in row order.
	data, _ := json.Marshal(w)
	return cache.Hash(data)
}

// Validate reports structural problems a caller should surface before
// assembly: a workbook with no hierarchy rows produces an empty tree, which
// is almost always an upload mistake rather than a real dataset.
func (w Workbook) Validate() error {
	if len(w.Hierarchy) == 0 {
		return fmt.Errorf("workbook has no hierarchy rows")
	}
	return nil
}

// trim normalizes every cell of the workbook in place, mirroring the
// source's whitespace handling.
func (w *Workbook) trim() {
	for i := range w.Hierarchy {
		w.Hierarchy[i] = hierarchy.HierarchyRow{
			DataDomainL1:      trimCell(w.Hierarchy[i].DataDomainL1),
			BusinessProcessL1: trimCell(w.Hierarchy[i].BusinessProcessL1),
			BusinessProcessL2: trimCell(w.Hierarchy[i].BusinessProcessL2),
			DataDomainL2:      trimCell(w.Hierarchy[i].DataDomainL2),
			DataDomainL3:      trimCell(w.Hierarchy[i].DataDomainL3),
			UseCase:           trimCell(w.Hierarchy[i].UseCase),
		}
	}
	for i := range w.Dependencies {
		w.Dependencies[i] = hierarchy.DependencyRow{
			Source: trimCell(w.Dependencies[i].Source),
			Target: trimCell(w.Dependencies[i].Target),
		}
	}
}
